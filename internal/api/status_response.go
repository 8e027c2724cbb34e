package api

// swagger:model api.StatusResponse
type StatusResponse struct {
	Status  string `json:"status" example:"UP"`
	Message string `json:"message" example:"SkinCare application is running"`
}
