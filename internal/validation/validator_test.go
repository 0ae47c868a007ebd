package validation

import (
	"strings"
	"testing"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	TutorID  string `json:"tutor_id" validate:"required"`
	Duration int    `json:"duration" validate:"gt=0"`
	Note     string `json:"note,omitempty" validate:"max=5"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(request{TutorID: "t-1", Duration: 30}))

	err := v.Validate(request{Duration: 0, Note: "too long"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	details, ok := e.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"tutor_id": "is required",
		"duration": "must be greater than 0",
		"note":     "must not exceed 5 characters",
	}, details)
}

func TestSearchTerm(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		term  string
		valid bool
	}{
		{"empty", "", true},
		{"word", "python", true},
		{"digits", "101", true},
		{"cyrillic", "матан", true},
		{"mixed punctuation", "c++", true},
		{"punctuation only", "+++", false},
		{"spaces only", "   ", false},
		{"too long", strings.Repeat("a", 31), false},
		{"at limit", strings.Repeat("a", 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.SearchTerm(tt.term, 30)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
}
