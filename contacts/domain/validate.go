package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.ToLower(fld.Name)
	})
	return v
}

// Validate checks the required-field invariant. Values are checked after trimming
// surrounding whitespace, so a blank name is as missing as an empty one.
func (f Fields) Validate() error {
	trimmed := Fields{
		Name:    strings.TrimSpace(f.Name),
		Surname: strings.TrimSpace(f.Surname),
		Phone:   strings.TrimSpace(f.Phone),
	}

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return &ValidationError{Fields: missing}
}
