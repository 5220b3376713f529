// AngelaMos | 2026
// validation.go

package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+\-_]+$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{9,11}$`)
)

// NewValidator returns a validator that reports fields by their JSON name
// and knows the "username" and "phone" tags.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	//nolint:errcheck // tag names are static and valid
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	//nolint:errcheck // tag names are static and valid
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(NormalizePhone(fl.Field().String()))
	})

	return v
}

// NormalizePhone strips dashes and spaces from a Korean phone number.
func NormalizePhone(phone string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(phone)
}
