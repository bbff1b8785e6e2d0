package middleware

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var clientNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var inputs = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clientname", func(fl validator.FieldLevel) bool {
		return clientNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidTokenFormat reports whether token is shaped like a compact JWT
func ValidTokenFormat(token string) bool {
	return inputs.Var(token, "required,max=4096,jwt") == nil
}

// ValidClientName reports whether name may be embedded in a token
func ValidClientName(name string) bool {
	return inputs.Var(name, "required,max=255,clientname") == nil
}
