package controllers

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/microcosm-cc/bluemonday"

	"tierlist-restful/apperrors"
)

// Validator checks request schemas against their validate tags and reports
// offending fields by JSON name.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Names are trimmed before they are stored, so whitespace alone counts as missing.
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	strict := bluemonday.StrictPolicy()
	// nohtml accepts text that the strict policy leaves untouched.
	_ = v.RegisterValidation("nohtml", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return html.UnescapeString(strict.Sanitize(s)) == s
	})
	return &Validator{validate: v}
}

// Struct returns a Validation error listing every failed field, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return apperrors.Internal("Failed to validate request", err)
	}
	fields := make([]apperrors.FieldError, 0, len(invalid))
	for _, fe := range invalid {
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apperrors.Validation("Invalid request", fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "email":
		return "Must be a valid email address"
	case "nohtml":
		return "Must not contain HTML markup"
	default:
		return fmt.Sprintf("Failed the %q rule", fe.Tag())
	}
}
