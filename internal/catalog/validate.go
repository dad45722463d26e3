package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rzbill/tablo/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := model.ParseClock(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("catalog: register clock validation: %v", err))
	}

	v.RegisterStructValidationMapRules(map[string]string{
		"ID":          "required",
		"Rating":      "gte=0,lte=5",
		"TotalTables": "gte=0",
		"Opening":     "required,clock",
		"Closing":     "required,clock",
	}, model.Restaurant{})
	v.RegisterStructValidation(validateHours, model.Restaurant{})

	v.RegisterStructValidationMapRules(map[string]string{
		"ID": "required",
	}, model.User{})
	return v
}

// validateHours enforces opening <= closing once both parse.
func validateHours(sl validator.StructLevel) {
	r := sl.Current().Interface().(model.Restaurant)
	open, close, err := r.Hours()
	if err != nil {
		return
	}
	if open > close {
		sl.ReportError(r.Closing, "Closing", "Closing", "after_opening", "")
	}
}

// columnOf maps struct field names to CSV column names for error reporting.
var columnOf = map[string]string{
	"ID":          "id",
	"Rating":      "rating",
	"TotalTables": "total_tables",
	"Opening":     "opening_hours",
	"Closing":     "closing_hours",
}

// checkRecord validates rec and converts the first failure into a ParseError.
func checkRecord(rec any, file string, line int, idColumn string) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) || len(valErrs) == 0 {
		return &model.ParseError{File: file, Line: line, Err: err}
	}
	f := valErrs[0]
	col := columnOf[f.StructField()]
	if f.StructField() == "ID" {
		col = idColumn
	}
	return &model.ParseError{
		File:  file,
		Line:  line,
		Field: col,
		Value: fmt.Sprint(f.Value()),
		Err:   errors.New(describe(f)),
	}
}

func describe(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + f.Param()
	case "lte":
		return "must be at most " + f.Param()
	case "clock":
		return "must be HH:MM"
	case "after_opening":
		return "must not be before opening_hours"
	default:
		return "failed " + f.Tag() + " check"
	}
}
