package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	UserID          string `json:"user_id,omitempty"`
	Email           string `json:"email,omitempty"`
	ExpiresAt       int64  `json:"expires_at,omitempty"`
}

func (s *Server) register(c echo.Context) error {
	var req commercesdk.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.sdk.Register(c.Request().Context(), req); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.auth.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.sessionBody())
}

func (s *Server) logout(c echo.Context) error {
	if err := s.auth.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) session(c echo.Context) error {
	return c.JSON(http.StatusOK, s.sessionBody())
}

func (s *Server) sessionBody() sessionResponse {
	sess := s.auth.Session()
	body := sessionResponse{
		IsAuthenticated: sess.IsAuthenticated,
		UserID:          sess.UserID,
		Email:           sess.Email,
	}
	if !sess.ExpiresAt.IsZero() {
		body.ExpiresAt = sess.ExpiresAt.Unix()
	}
	return body
}
