package server

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into echo's c.Validate
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator registers the custom tags used by request types
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("pubkey", func(fl validator.FieldLevel) bool {
		_, err := solana.PublicKeyFromBase58(fl.Field().String())
		return err == nil
	})
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator
func (r *RequestValidator) Validate(i any) error {
	return r.v.Struct(i)
}

// validationDetails flattens validator errors into field -> rule
func validationDetails(err error) map[string]any {
	out := map[string]any{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["err"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		rule := fe.Tag()
		if p := fe.Param(); p != "" {
			rule = fmt.Sprintf("%s=%s", rule, p)
		}
		out[lowerFirst(fe.Field())] = rule
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
