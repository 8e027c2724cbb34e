package handler

import (
	"net/http"

	"skincare/internal/api"

	"github.com/labstack/echo/v4"
)

// StatusHandler 回報服務是否在執行
// @Summary     Application status
// @Description 固定回傳 UP，不檢查任何相依服務
// @Tags        health
// @Produce     json
// @Success     200 {object} api.StatusResponse
// @Router      /api/status [get]
func StatusHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, api.StatusResponse{
			Status:  "UP",
			Message: "SkinCare application is running",
		})
	}
}
