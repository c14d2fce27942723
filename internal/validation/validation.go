package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront-be/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json name when they carry one.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates v by its `validate` tags and returns an
// *apperror.ValidationError describing every failing field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &apperror.ValidationError{Fields: map[string]string{"input": err.Error()}}
	}

	return &apperror.ValidationError{Fields: FormatValidationError(verrs)}
}

func FormatValidationError(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())

		switch fe.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min":
			if fe.Kind().String() == "string" {
				out[field] = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at least %s", field, fe.Param())
			}
		case "max":
			if fe.Kind().String() == "string" {
				out[field] = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at most %s", field, fe.Param())
			}
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
		case "email":
			out[field] = fmt.Sprintf("%s must be a valid email", field)
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
