package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// Helper validates transport request structs shared by the gRPC and HTTP adapters
type Helper struct {
	validator *validator.Validate
}

// NewHelper creates a validation helper that reports fields by their json names
// and understands the "decimal" and "positive_decimal" tags. Both reject values
// outside the bounds of domain.CheckMagnitude.
func NewHelper() *Helper {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDecimal(fl.FieldName(), fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		d, err := domain.ParseDecimal(fl.FieldName(), fl.Field().String())
		return err == nil && d.IsPositive()
	})

	return &Helper{validator: v}
}

// ValidateStruct validates a struct and returns validation errors
func (h *Helper) ValidateStruct(s any) error {
	return h.validator.Struct(s)
}

// Details maps each failing field to a readable reason; nil when err is not a validation error
func Details(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	details := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		details[fe.Field()] = reason(fe)
	}
	return details
}

// Message flattens Details into a single line, fields in name order
func Message(err error) string {
	details := Details(err)
	if details == nil {
		return err.Error()
	}

	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+details[field])
	}
	return strings.Join(parts, "; ")
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "uuid":
		return "must be a UUID"
	case "datetime":
		return "must be a date formatted YYYY-MM-DD"
	case "decimal":
		return "must be a decimal number"
	case "positive_decimal":
		return "must be a positive decimal number"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' tag", fe.Tag())
	}
}
