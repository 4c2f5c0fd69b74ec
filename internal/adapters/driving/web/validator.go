package web

import "github.com/go-playground/validator/v10"

// RequestValidator adapts go-playground/validator to echo's Validator
// interface.
type RequestValidator struct {
	v *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *RequestValidator {
	return &RequestValidator{v: validator.New()}
}

// Validate checks struct tags on the bound request.
func (rv *RequestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}
