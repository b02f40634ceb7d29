package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// livez always answers 200 while the process is up.
func (s *Server) livez(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Uptime:  time.Since(s.startTime).String(),
		Version: s.buildVersion,
	})
}
