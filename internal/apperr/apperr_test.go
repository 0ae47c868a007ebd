package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("accept booking: %w", InvalidState("booking is not pending"))

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.Equal(t, CodeInvalidState, CodeOf(err))
}

func TestCodeOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("boom")))
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Internal("get booking", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get booking: connection reset", err.Error())
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeInvalidState, http.StatusUnprocessableEntity},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestUserMessage_DistinctPerCode(t *testing.T) {
	errs := []error{
		ErrUnauthenticated,
		ErrForbidden,
		ErrNotFound,
		InvalidInput(""),
		ErrInvalidState,
		ErrConflict,
		ErrInternal,
	}

	seen := make(map[string]bool)
	for _, err := range errs {
		msg := UserMessage(err)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "message reused: %q", msg)
		seen[msg] = true
	}
}

func TestUserMessage_InvalidInputIncludesReason(t *testing.T) {
	msg := UserMessage(InvalidInput("date must be in the future"))
	assert.Contains(t, msg, "date must be in the future")
}
