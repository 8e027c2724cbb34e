package handler

import (
	"context"
	"net/http"

	"skincare/internal/api"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Check is one dependency probed by the health endpoint.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler 依序 ping 每個相依服務
// @Summary     Health Check
// @Description 檢查資料庫與快取連線，第一個失敗者會回傳 503
// @Tags        health
// @Produce     json
// @Success     200 {object} api.HealthResponse
// @Failure     503 {object} api.HealthResponse
// @Router      /api/health [get]
func HealthHandler(log logrus.FieldLogger, checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		for _, chk := range checks {
			if err := chk.Ping(ctx); err != nil {
				log.WithError(err).WithField("dependency", chk.Name).Warn("health check failed")
				return c.JSON(http.StatusServiceUnavailable, api.HealthResponse{
					Status:  "DOWN",
					Message: chk.Name + " unhealthy",
				})
			}
		}
		return c.JSON(http.StatusOK, api.HealthResponse{Status: "UP"})
	}
}
