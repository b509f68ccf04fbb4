// Package forms содержит состояние и проверку форм панели до обращения к backend.
package forms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError - ошибка проверки формы на стороне клиента; запрос к backend не выполняется
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// IsValidation сообщает, является ли err ошибкой проверки формы
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// checkStruct запускает validator и переводит первую ошибку в сообщение из messages.
// Ключ messages - "Поле.тег".
func checkStruct(s any, messages map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return err
	}
	first := vErrs[0]
	msg, ok := messages[first.Field()+"."+first.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", strings.ToLower(first.Field()))
	}
	return &ValidationError{Field: first.Field(), Message: msg}
}

// parseDecimal разбирает число из поля формы; NaN и бесконечности отвергаются
func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// LoginForm - форма входа администратора
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (f LoginForm) Validate() error {
	return checkStruct(f, map[string]string{
		"Email.required":    "Email is required",
		"Email.email":       "Please enter a valid email address",
		"Password.required": "Password is required",
	})
}

// ApprovalForm - диалог ввода веса посылки (кг). Значения по умолчанию нет.
type ApprovalForm struct {
	Weight string `validate:"required"`
}

// Validate проверяет вес и возвращает его числом
func (f ApprovalForm) Validate() (float64, error) {
	if err := checkStruct(f, map[string]string{"Weight.required": "Weight is required"}); err != nil {
		return 0, err
	}
	w, ok := parseDecimal(f.Weight)
	if !ok {
		return 0, &ValidationError{Field: "Weight", Message: "Weight must be a number"}
	}
	if w <= 0 {
		return 0, &ValidationError{Field: "Weight", Message: "Weight must be greater than zero"}
	}
	return w, nil
}
