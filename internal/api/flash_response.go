package api

// FlashResponse 最多只會有一個欄位有值
// swagger:model api.FlashResponse
type FlashResponse struct {
	Error   string `json:"error,omitempty" example:"Email already exists"`
	Success string `json:"success,omitempty" example:"Registration successful"`
}
