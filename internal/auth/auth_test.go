package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenResolver_RoundTrip(t *testing.T) {
	r := NewTokenResolver("secret", time.Hour)
	want := model.Identity{UserID: "u-1", Role: model.RoleTutor}

	token, err := r.Issue(want)
	require.NoError(t, err)

	got, err := r.Resolve(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = r.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTokenResolver_Rejects(t *testing.T) {
	r := NewTokenResolver("secret", time.Hour)
	other := NewTokenResolver("other-secret", time.Hour)

	foreign, err := other.Issue(model.Identity{UserID: "u-1", Role: model.RoleStudent})
	require.NoError(t, err)

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
	})
	noRoleToken, err := noRole.SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
	}{
		{"empty", ""},
		{"bearer only", "Bearer "},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong secret", foreign},
		{"missing role", noRoleToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.credential)
			assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
		})
	}
}

func TestTokenResolver_Expired(t *testing.T) {
	r := NewTokenResolver("secret", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	r.now = func() time.Time { return issuedAt }

	token, err := r.Issue(model.Identity{UserID: "u-1", Role: model.RoleStudent})
	require.NoError(t, err)

	r.now = time.Now
	_, err = r.Resolve(context.Background(), token)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "token expired")
}

func TestTokenResolver_IssueValidatesIdentity(t *testing.T) {
	r := NewTokenResolver("secret", time.Hour)

	_, err := r.Issue(model.Identity{UserID: "u-1", Role: "admin"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
