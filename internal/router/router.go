package router

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"skincare/internal/flash"
	"skincare/internal/handler"
	"skincare/internal/handler/users"
	"skincare/internal/static"
)

// Deps 為註冊路由所需的所有元件
type Deps struct {
	Registrar  users.Registrar
	Flash      flash.Store
	Checks     []handler.Check
	StaticRoot string
	Log        logrus.FieldLogger
}

// Setup 註冊所有路由
func Setup(e *echo.Echo, d Deps) {
	// 註冊表單 (由 auth.html 送出)
	e.POST("/register", users.RegisterHandler(d.Registrar, d.Flash, d.Log))

	api := e.Group("/api")
	api.GET("/status", handler.StatusHandler())
	api.GET("/health", handler.HealthHandler(d.Log, d.Checks...))
	api.GET("/flash", handler.FlashHandler(d.Flash, d.Log))

	// 其餘 GET 皆視為靜態檔案
	e.GET("/*", static.Handler(d.StaticRoot, static.DefaultRules))
}
