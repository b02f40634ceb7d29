package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
)

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items         []commercesdk.CartItem `json:"items"`
	TotalQuantity int                    `json:"total_quantity"`
}

func (s *Server) orderHistory(c echo.Context) error {
	orders, err := s.orders.History(c.Request().Context())
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []commercesdk.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

func (s *Server) orderDetail(c echo.Context) error {
	order, err := s.orders.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (s *Server) cart(c echo.Context) error {
	items, err := s.orders.Cart(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []commercesdk.CartItem{}
	}
	return c.JSON(http.StatusOK, cartResponse{
		Items:         items,
		TotalQuantity: commercesdk.TotalQuantity(items),
	})
}

func (s *Server) updateCartItem(c echo.Context) error {
	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}

	if err := s.orders.SetCartQuantity(c.Request().Context(), c.Param("id"), req.Quantity); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) removeCartItem(c echo.Context) error {
	if err := s.orders.RemoveCartItem(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
