package handler

import (
	"net/http"

	"skincare/internal/api"
	"skincare/internal/flash"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// FlashHandler 取出並清除待顯示的訊息
// @Summary     Pending flash message
// @Description 讀取一次後即清除；無訊息時回傳 {}
// @Tags        flash
// @Produce     json
// @Success     200 {object} api.FlashResponse
// @Router      /api/flash [get]
func FlashHandler(store flash.Store, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var resp api.FlashResponse
		m, err := store.Take(c)
		if err != nil {
			log.WithError(err).Warn("discarding unreadable flash")
			return c.JSON(http.StatusOK, resp)
		}
		if m != nil {
			switch m.Kind {
			case flash.KindError:
				resp.Error = m.Text
			case flash.KindSuccess:
				resp.Success = m.Text
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}
