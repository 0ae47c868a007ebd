// Package apperr описывает ошибки сервисов записи и подбора.
//
// Сервисы возвращают *Error (или оборачивают через fmt.Errorf и %w), а вызывающий
// код сравнивает через errors.Is с образцами, совпадающими по Code:
//
//	if errors.Is(err, apperr.ErrInvalidState) {
//	    // перечитать запись
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code машинный код ошибки
type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

// HTTPStatus возвращает HTTP статус для кода
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeInvalidState:
		return http.StatusUnprocessableEntity
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error ошибка с кодом и необязательной причиной
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is совпадает с любой *Error с тем же Code
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause возвращает копию e с причиной err
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// WithDetails возвращает копию e с деталями (например, ошибками по полям)
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

var (
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated, Message: "unauthenticated"}
	ErrForbidden       = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidInput    = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrInvalidState    = &Error{Code: CodeInvalidState, Message: "invalid state"}
	ErrConflict        = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal        = &Error{Code: CodeInternal, Message: "internal error"}
)

func Unauthenticated(msg string) *Error { return &Error{Code: CodeUnauthenticated, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Code: CodeForbidden, Message: msg} }

func NotFound(msg string) *Error { return &Error{Code: CodeNotFound, Message: msg} }

func InvalidInput(msg string) *Error { return &Error{Code: CodeInvalidInput, Message: msg} }

func InvalidState(msg string) *Error { return &Error{Code: CodeInvalidState, Message: msg} }

func Conflict(msg string) *Error { return &Error{Code: CodeConflict, Message: msg} }

func Internal(msg string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}

// CodeOf возвращает код первой *Error в цепочке или CodeInternal
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// UserMessage возвращает текст для пользователя. У каждого кода свой текст:
// после каждой ошибки нужно делать разное.
func UserMessage(err error) string {
	switch CodeOf(err) {
	case CodeUnauthenticated:
		return "Please sign in again."
	case CodeForbidden:
		return "This booking is not yours to change."
	case CodeNotFound:
		return "We couldn't find that. It may have been removed."
	case CodeInvalidInput:
		var e *Error
		if errors.As(err, &e) && e.Message != "" {
			return "Please check your input: " + e.Message + "."
		}
		return "Please check your input."
	case CodeInvalidState:
		return "This booking has already changed. Refresh to see its current status."
	case CodeConflict:
		return "Someone else updated this booking at the same time. Refresh and try again."
	default:
		return "Something went wrong. Please try again later."
	}
}
