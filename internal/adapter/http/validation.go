package http

import (
	"errors"

	"microlending/internal/domain/asset"
	"microlending/internal/domain/platform"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Kind    string       `json:"kind,omitempty"`
	Code    uint32       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// caller identity, same charset the Ax-Principal header accepts
	_ = v.RegisterValidation("principal", func(fl validator.FieldLevel) bool {
		return platform.ValidPrincipal(fl.Field().String())
	})
	// collateral symbol; case and surrounding blanks are normalized later
	_ = v.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		return asset.ValidSymbol(asset.NormalizeSymbol(fl.Field().String()))
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "principal":
			out = append(out, FieldError{Field: field, Message: "must be a principal of letters, digits, '.', '_' or '-'"})
		case "symbol":
			out = append(out, FieldError{Field: field, Message: "must be a 1-32 char asset symbol"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
