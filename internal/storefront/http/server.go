package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/murodbro/turfa-bazar-client/internal/storefront/service"
	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
	"github.com/murodbro/turfa-bazar-client/pkg/slogx"
)

// Server is the local gateway: a small HTTP surface over the storefront
// services for whatever front end sits on top. It is meant to listen on
// loopback; it performs no authentication of its callers.
type Server struct {
	echo   *echo.Echo
	logger *slog.Logger

	sdk      *commercesdk.Client
	auth     *service.AuthService
	checkout *service.CheckoutService
	orders   *service.OrdersService
	notifier *service.LogNotifier

	buildVersion string
	startTime    time.Time
}

func NewServer(
	sdk *commercesdk.Client,
	auth *service.AuthService,
	checkout *service.CheckoutService,
	orders *service.OrdersService,
	notifier *service.LogNotifier,
	logger *slog.Logger,
	buildVersion string,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	s := &Server{
		echo:         e,
		logger:       logger,
		sdk:          sdk,
		auth:         auth,
		checkout:     checkout,
		orders:       orders,
		notifier:     notifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
	}

	e.HTTPErrorHandler = s.handleError
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/livez", s.livez)

	api := s.echo.Group("/api")

	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)
	api.GET("/session", s.session)

	api.GET("/profile", s.profile)
	api.PUT("/profile", s.updateProfile)
	api.POST("/password/forgot", s.forgotPassword)
	api.POST("/password/verify", s.verifyPasswordReset)
	api.POST("/password/reset", s.completePasswordReset)

	api.POST("/checkout", s.submitCheckout)
	api.POST("/checkout/confirm", s.confirmCheckout)
	api.POST("/checkout/cancel", s.cancelCheckout)
	api.GET("/checkout/status", s.checkoutStatus)

	api.GET("/orders", s.orderHistory)
	api.GET("/orders/:id", s.orderDetail)

	api.GET("/cart", s.cart)
	api.PATCH("/cart/items/:id", s.updateCartItem)
	api.DELETE("/cart/items/:id", s.removeCartItem)
}

// requestLogger stores a request-scoped logger on the context so every layer
// below tags its lines with the request id.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := slogx.WithContext(c.Request().Context(), logger)
			ctx = slogx.WithRequestID(ctx, reqID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
