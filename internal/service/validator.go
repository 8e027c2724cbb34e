package service

import "github.com/go-playground/validator/v10"

// CustomValidator wraps go-playground/validator; it also satisfies echo.Validator.
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
