package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

// NewValidator creates a validator that reports fields by their json name
// and understands the non-standard "notblank" tag
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterNotBlank(v)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// RegisterNotBlank adds the "notblank" tag to v
func RegisterNotBlank(v *validator.Validate) {
	// Registration only fails for an empty tag name
	_ = v.RegisterValidation("notblank", validators.NotBlank)
}

// FirstFieldError returns the first failing field of a validator error
func FirstFieldError(err error) (validator.FieldError, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0], true
	}
	return nil, false
}

// SanitizeString removes control characters except tab and newlines
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
