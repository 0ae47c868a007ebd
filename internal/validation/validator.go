// Package validation проверка входных данных через go-playground/validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/go-playground/validator/v10"
)

// Validator возвращает INVALID_INPUT с ошибками по JSON именам полей
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// searchterm: хотя бы одна буква или цифра
	_ = v.RegisterValidation("searchterm", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) >= 0
	})

	return &Validator{v: v}
}

// Validate проверяет структуру запроса
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// SearchTerm проверяет строку поиска: пустая или до maxLen символов
// хотя бы с одной буквой или цифрой.
func (v *Validator) SearchTerm(term string, maxLen int) error {
	if term == "" {
		return nil
	}
	tag := fmt.Sprintf("max=%d,searchterm", maxLen)
	if err := v.v.Var(term, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return apperr.InvalidInput("search term " + friendlyMessage(fieldErrs[0]))
		}
		return apperr.InvalidInput("invalid search term")
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperr.InvalidInput("invalid request").WithCause(err)
	}

	fields := make(map[string]string, len(validationErrs))
	parts := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msg := friendlyMessage(e)
		fields[e.Field()] = msg
		parts = append(parts, e.Field()+" "+msg)
	}

	return apperr.InvalidInput(strings.Join(parts, "; ")).WithDetails(fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "searchterm":
		return "must contain at least one letter or digit"
	default:
		return "is invalid"
	}
}
