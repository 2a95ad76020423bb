package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(FieldName)
	return v
}

// FieldName names a struct field after its json tag, falling back to the
// form tag. It is used so validation errors speak the wire names.
func FieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Validate checks every field of t against its declared domain.
func (t Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{Field: fe.Field(), Message: DescribeFieldError(fe)}
		}
		return fmt.Errorf("validate task: %w", err)
	}
	return nil
}

// ValidatePriority checks that level is a valid priority.
func ValidatePriority(level int) error {
	if level < MinPriority || level > MaxPriority {
		return NewValidationError("priority", "must be between %d and %d", MinPriority, MaxPriority)
	}
	return nil
}

// DescribeFieldError renders a validator failure as a short human message.
func DescribeFieldError(fe validator.FieldError) string {
	text := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		if text {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		if text {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
