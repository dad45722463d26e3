package reservation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldErrors lists every request field that failed validation.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	s := make([]string, 0, len(e))
	for _, f := range e {
		s = append(s, f.Error())
	}
	return strings.Join(s, ", ")
}

// FieldError is one failed request field.
type FieldError struct {
	Field string
	Msg   string
}

func (e FieldError) Error() string { return e.Field + " " + e.Msg }

func validateRequest(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	errs := make(FieldErrors, 0, len(valErrs))
	for _, f := range valErrs {
		errs = append(errs, fieldError(f))
	}
	return errs
}

func fieldError(f validator.FieldError) FieldError {
	switch f.Tag() {
	case "required":
		return FieldError{Field: f.Field(), Msg: "is required"}
	case "gte":
		return FieldError{Field: f.Field(), Msg: "must be at least " + f.Param()}
	case "datetime":
		return FieldError{Field: f.Field(), Msg: fmt.Sprintf("must match %s", f.Param())}
	default:
		return FieldError{Field: f.Field(), Msg: "is invalid"}
	}
}
