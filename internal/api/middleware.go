package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// WithIdentity кладёт пользователя в ctx
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// IdentityFromContext возвращает пользователя из AuthMiddleware
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(model.Identity)
	return id, ok
}

// AuthMiddleware определяет пользователя по заголовку Authorization
func AuthMiddleware(resolver service.IdentityResolver, logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, apperr.Unauthenticated("missing Authorization header"), logger)
				return
			}

			id, err := resolver.Resolve(r.Context(), header)
			if err != nil {
				logger.Debug("Authentication failed", zap.String("path", r.URL.Path), zap.Error(err))
				writeError(w, err, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func RecoveryMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic", zap.Any("panic", rec), zap.String("path", r.URL.Path))
					writeError(w, apperr.ErrInternal, logger)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware ограничивает запросы с одного IP
func RateLimitMiddleware(limiter *RateLimiter, logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, errorBody{
					Code:    "RATE_LIMITED",
					Message: "Too many requests. Please slow down.",
				}, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
