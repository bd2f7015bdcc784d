package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput - общая причина всех ошибок входных данных
var ErrInvalidInput = errors.New("invalid input")

// ValidationError содержит ошибки по полям (ключ - имя поля в JSON)
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "input validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate проверяет структуру по тегам validate
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = describeFieldError(fe)
	}
	return out
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing required field"
	case "gt":
		if fe.Param() == "0" {
			return "must be positive"
		}
		return "must be greater than " + fe.Param()
	case "gte":
		if fe.Param() == "0" {
			return "cannot be negative"
		}
		return "must be at least " + fe.Param()
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func (r FinancialProfileRequest) Validate() error {
	return Validate(r)
}

func (p FinancialProfile) Validate() error {
	return Validate(p)
}

func (in LoanRequestInput) Validate() error {
	return Validate(in)
}

func (r LoanRequest) Validate() error {
	return Validate(r)
}
