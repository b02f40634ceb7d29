package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/domain"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/service"
)

type confirmRequest struct {
	Code string `json:"code"`
}

type checkoutResponse struct {
	State            string `json:"state"`
	OrderID          string `json:"order_id,omitempty"`
	RemainingSeconds int    `json:"remaining_seconds,omitempty"`
	Redirect         string `json:"redirect,omitempty"`

	// Notice is the latest user-visible outcome message, if any.
	Notice *service.Notification `json:"notice,omitempty"`
}

func (s *Server) submitCheckout(c echo.Context) error {
	var form domain.CheckoutForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	orderID, err := s.checkout.Submit(c.Request().Context(), form)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, s.statusBody(orderID))
}

func (s *Server) confirmCheckout(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "confirmation code is required")
	}

	redirect, err := s.checkout.SubmitCode(c.Request().Context(), req.Code)
	if err != nil {
		return err
	}

	status := s.checkout.Status()
	return c.JSON(http.StatusOK, checkoutResponse{
		State:    status.State.String(),
		OrderID:  status.OrderID,
		Redirect: redirect,
	})
}

func (s *Server) cancelCheckout(c echo.Context) error {
	if err := s.checkout.Cancel(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.statusBody(""))
}

func (s *Server) checkoutStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.statusBody(""))
}

func (s *Server) statusBody(orderID string) checkoutResponse {
	status := s.checkout.Status()
	if orderID == "" {
		orderID = status.OrderID
	}
	resp := checkoutResponse{
		State:            status.State.String(),
		OrderID:          orderID,
		RemainingSeconds: status.RemainingSeconds,
		Redirect:         status.Redirect,
	}
	if last := s.notifier.Last(); last.Message != "" {
		resp.Notice = &last
	}
	return resp
}
