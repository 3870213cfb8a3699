// Package validate wraps struct validation for write-path inputs.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Error marks a rejected operation caused by missing or empty required input.
// No partial write happens when it is returned.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// Struct validates tagged fields and converts the first failure into *Error.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		field := strings.ToLower(f.Field())
		if f.Tag() == "required" {
			return &Error{msg: fmt.Sprintf("%s is required", field)}
		}
		return &Error{msg: fmt.Sprintf("%s failed %s validation", field, f.Tag())}
	}
	return &Error{msg: err.Error()}
}

// IsValidation reports whether err is (or wraps) a validation Error.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
