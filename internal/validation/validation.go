package validation

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"shopapp/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report field paths using json names so they match the API payloads.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// Struct runs the declarative tag constraints on v and returns every
// violation found, not just the first.
func Struct(v interface{}) []domain.FieldViolation {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var violations []domain.FieldViolation
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			violations = append(violations, domain.FieldViolation{
				Field:   fieldPath(e),
				Message: messageFor(e),
			})
		}
	} else {
		violations = append(violations, domain.FieldViolation{
			Field:   "",
			Message: err.Error(),
		})
	}
	return violations
}

// StringEnum checks membership of value in a caller-supplied closed set of
// permitted strings.
func StringEnum(field, value string, allowed []string) *domain.FieldViolation {
	if slices.Contains(allowed, value) {
		return nil
	}
	return &domain.FieldViolation{
		Field:   field,
		Message: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
	}
}

// fieldPath strips the root struct segment from the namespace, leaving the
// path of the offending field, e.g. "openingHours[0].openAt".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "At least " + e.Param() + " entry must be provided"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "datetime":
		return "Value must be a time formatted as " + e.Param()
	default:
		return "Invalid value"
	}
}
