// Package auth превращает bearer токены в пользователя.
//
// Токен это HS256 JWT: id пользователя в subject, роль в отдельном claim.
// Вход и регистрация живут в сервисе аккаунтов, Issue нужен для разработки и тестов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenResolver реализует service.IdentityResolver поверх JWT
type TokenResolver struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenResolver(secret string, ttl time.Duration) *TokenResolver {
	return &TokenResolver{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue подписывает токен для пользователя
func (r *TokenResolver) Issue(id model.Identity) (string, error) {
	if id.UserID == "" || !id.Role.Valid() {
		return "", apperr.InvalidInput("identity needs a user id and a valid role")
	}

	now := r.now()
	claims := &Claims{
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve проверяет токен. Префикс "Bearer " допускается.
func (r *TokenResolver) Resolve(_ context.Context, credential string) (model.Identity, error) {
	tokenString := strings.TrimSpace(credential)
	if len(tokenString) > 7 && strings.EqualFold(tokenString[:7], "bearer ") {
		tokenString = strings.TrimSpace(tokenString[7:])
	}
	if tokenString == "" {
		return model.Identity{}, apperr.Unauthenticated("missing credential")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	}, jwt.WithTimeFunc(r.now))
	if err != nil || !token.Valid {
		msg := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token expired"
		}
		return model.Identity{}, apperr.Unauthenticated(msg).WithCause(err)
	}

	role := model.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return model.Identity{}, apperr.Unauthenticated("token has no usable identity")
	}

	return model.Identity{UserID: claims.Subject, Role: role}, nil
}
