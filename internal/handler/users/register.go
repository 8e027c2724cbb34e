package users

import (
	"context"
	"net/http"

	"skincare/internal/api"
	"skincare/internal/flash"
	"skincare/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type Registrar interface {
	Register(ctx context.Context, form service.RegistrationForm) service.Outcome
}

// RegisterHandler 處理註冊表單並導回靜態頁面
// @Summary     Register a new user
// @Description 驗證表單並建立帳號，結果以 flash 訊息帶到下一頁 (GET /api/flash)
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Param       name            formData string true "使用者姓名"
// @Param       email           formData string true "使用者 Email"
// @Param       password        formData string true "使用者密碼"
// @Param       confirmpassword formData string true "確認密碼"
// @Success     302 "redirect to /auth.html or /auth.html#signup"
// @Failure     400 {object} api.ErrorResponse
// @Router      /register [post]
func RegisterHandler(reg Registrar, flashes flash.Store, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}

		out := reg.Register(c.Request().Context(), service.RegistrationForm{
			Name:            req.Name,
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
		})
		// 訊息存不進去仍然導頁，只是少了提示
		if err := flashes.Put(c, out.Flash); err != nil {
			log.WithError(err).WithField("outcome", out.Kind.String()).Error("store flash")
		}
		return c.Redirect(http.StatusFound, out.Redirect)
	}
}
