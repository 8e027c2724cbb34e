package api

// RegisterRequest 註冊表單 (application/x-www-form-urlencoded)
// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name            string `form:"name" example:"Ann"`
	Email           string `form:"email" example:"ann@example.com"`
	Password        string `form:"password" example:"Secret123!"`
	ConfirmPassword string `form:"confirmpassword" example:"Secret123!"`
}
