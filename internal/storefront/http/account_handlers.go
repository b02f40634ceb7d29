package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/service"
	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
)

type passwordResetRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (s *Server) profile(c echo.Context) error {
	sess := s.auth.Session()
	if !sess.IsAuthenticated {
		return service.ErrNotAuthenticated
	}

	profile, err := s.sdk.Profile(c.Request().Context(), sess.AccessToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) updateProfile(c echo.Context) error {
	sess := s.auth.Session()
	if !sess.IsAuthenticated {
		return service.ErrNotAuthenticated
	}

	var profile commercesdk.Profile
	if err := c.Bind(&profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if err := s.sdk.UpdateProfile(c.Request().Context(), sess.AccessToken, profile); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) forgotPassword(c echo.Context) error {
	req, err := bindPasswordReset(c)
	if err != nil {
		return err
	}
	if err := s.sdk.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) verifyPasswordReset(c echo.Context) error {
	req, err := bindPasswordReset(c)
	if err != nil {
		return err
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reset code is required")
	}
	if err := s.sdk.VerifyPasswordResetCode(c.Request().Context(), req.Email, req.Code); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) completePasswordReset(c echo.Context) error {
	req, err := bindPasswordReset(c)
	if err != nil {
		return err
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new password is required")
	}
	if err := s.sdk.CompletePasswordReset(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindPasswordReset(c echo.Context) (passwordResetRequest, error) {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Email == "" {
		return req, echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	return req, nil
}
