package api

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Message string `json:"message" example:"invalid form data"`
}
