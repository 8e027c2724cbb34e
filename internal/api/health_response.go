package api

// swagger:model api.HealthResponse
type HealthResponse struct {
	Status  string `json:"status" example:"UP"`
	Message string `json:"message,omitempty" example:"database unhealthy"`
}
