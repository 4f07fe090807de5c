package app

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	if err := validate.RegisterValidation("odometer", validateOdometer); err != nil {
		panic(err)
	}
}

// DepartureForm is what a person fills in when a vehicle leaves.
type DepartureForm struct {
	Vehicle     string `form:"vehicle" validate:"required"`
	Driver      string `form:"driver" validate:"required"`
	Escort      string `form:"escort" validate:"required"`
	Odometer    string `form:"odometer" validate:"required,odometer"`
	Destination string `form:"destination" validate:"required"`
}

// ReturnForm is what a person fills in when a vehicle comes back.
type ReturnForm struct {
	Vehicle  string `form:"vehicle" validate:"required"`
	Driver   string `form:"driver" validate:"required"`
	Escort   string `form:"escort" validate:"required"`
	Odometer string `form:"odometer" validate:"required,odometer"`
}

// FieldError lists the form fields that are missing or malformed.
type FieldError struct {
	Missing []string
	Invalid []string
}

func (e *FieldError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return "app: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrMissingFields) hold.
func (e *FieldError) Is(target error) bool {
	return target == ErrMissingFields
}

// validateForm trims every string field of form in place and validates it.
func validateForm(form any) error {
	trimStrings(form)
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("app: validate form: %w", err)
	}
	fe := &FieldError{}
	for _, ve := range ves {
		if ve.Tag() == "required" {
			fe.Missing = append(fe.Missing, ve.Field())
		} else {
			fe.Invalid = append(fe.Invalid, ve.Field())
		}
	}
	return fe
}

func trimStrings(form any) {
	v := reflect.ValueOf(form)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

// validateOdometer accepts non-negative whole numbers.
func validateOdometer(fl validator.FieldLevel) bool {
	_, err := ParseOdometer(fl.Field().String())
	return err == nil
}

// ParseOdometer parses a non-negative whole kilometre reading.
func ParseOdometer(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("app: odometer %q is not a number", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("app: odometer %q is negative", v)
	}
	return n, nil
}
