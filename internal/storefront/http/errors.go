package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/domain"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/service"
	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
	"github.com/murodbro/turfa-bazar-client/pkg/slogx"
)

// errorResponse is the gateway's uniform error body.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// handleError maps service errors onto HTTP statuses: validation problems
// are 400 with per-field messages, backend rejections keep the backend's
// status, transport failures surface as 502.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		body   errorResponse
	)

	var (
		verr    *domain.ValidationError
		apiErr  *commercesdk.APIError
		echoErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body = errorResponse{Error: "validation failed", Fields: verr.Fields}
	case errors.Is(err, service.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		body.Error = err.Error()
	case errors.Is(err, service.ErrCheckoutInProgress),
		errors.Is(err, service.ErrNoActiveCheckout):
		status = http.StatusConflict
		body.Error = err.Error()
	case errors.As(err, &apiErr):
		status = apiErr.StatusCode
		body.Error = apiErr.Message
	case errors.As(err, &echoErr):
		status = echoErr.Code
		body.Error = http.StatusText(status)
	default:
		status = http.StatusBadGateway
		body.Error = "backend unreachable"
	}

	logger := slogx.FromContext(c.Request().Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", c.Path(), "error", err)
	}

	if werr := c.JSON(status, body); werr != nil {
		logger.Error("failed to write error response", "error", werr)
	}
}
