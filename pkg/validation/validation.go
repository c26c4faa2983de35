package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phoneRegex matches the supported subscriber numbers: exactly 11
// digits starting with "01".
var phoneRegex = regexp.MustCompile(`^01\d{9}$`)

// RegisterCustomValidators installs the service's custom rules on gin's
// binding engine. Must be called once before the router handles
// requests.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type")
	}

	// Report field names as they appear on the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v.RegisterValidation("phone", validatePhone)
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// IsValidPhone reports whether the value satisfies the phone rule.
func IsValidPhone(value string) bool {
	return phoneRegex.MatchString(value)
}

// Details converts a binding error into per-field messages suitable for
// a 422 response body. Non-validator errors collapse into a single
// generic entry so internal detail never reaches the client.
func Details(err error) map[string]string {
	details := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		details["body"] = "invalid request format"
		return details
	}

	for _, e := range validationErrors {
		// Field() is the json name when the tag-name func is registered;
		// fall back to snake-casing the Go field name otherwise.
		field := e.Field()
		if field != strings.ToLower(field) {
			field = toSnakeCase(field)
		}
		details[field] = messageFor(field, e)
	}

	return details
}

func messageFor(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", field)
	case "phone":
		return "the phone must be 11 digits and start with 01"
	case "min":
		return fmt.Sprintf("the %s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("the %s may not be greater than %s characters", field, e.Param())
	default:
		return fmt.Sprintf("the %s field is invalid", field)
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
