// Package api HTTP API записей, подбора и закладок.
package api

import (
	"net/http"

	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/Freeeeeet/tutor_match/internal/validation"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Deps зависимости роутера
type Deps struct {
	Bookings  *service.BookingService
	Matches   *service.MatchService
	Bookmarks *service.BookmarkService
	Identity  service.IdentityResolver
	Policy    config.BookingPolicy
	Limiter   *RateLimiter
	Logger    *zap.Logger
}

// NewRouter собирает роутер с middleware
func NewRouter(d Deps) http.Handler {
	h := &Handler{
		bookings:  d.Bookings,
		matches:   d.Matches,
		bookmarks: d.Bookmarks,
		validator: validation.New(),
		policy:    d.Policy,
		logger:    d.Logger,
	}

	r := mux.NewRouter()
	r.Use(RecoveryMiddleware(d.Logger))
	r.Use(LoggingMiddleware(d.Logger))
	if d.Limiter != nil {
		r.Use(RateLimitMiddleware(d.Limiter, d.Logger))
	}

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(AuthMiddleware(d.Identity, d.Logger))

	v1.HandleFunc("/candidates", h.ListCandidates).Methods(http.MethodGet)

	v1.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/my", h.ListMyBookings).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id}", h.EditBooking).Methods(http.MethodPatch)
	v1.HandleFunc("/bookings/{id}", h.CancelBooking).Methods(http.MethodDelete)
	v1.HandleFunc("/bookings/{id}/decision", h.DecideBooking).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id}/accept", h.AcceptBooking).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id}/reject", h.RejectBooking).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id}/dismiss", h.DismissBooking).Methods(http.MethodPost)

	v1.HandleFunc("/bookmarks", h.ListBookmarks).Methods(http.MethodGet)
	v1.HandleFunc("/bookmarks/{tutorId}", h.ToggleBookmark).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return c.Handler(r)
}

type Handler struct {
	bookings  *service.BookingService
	matches   *service.MatchService
	bookmarks *service.BookmarkService
	validator *validation.Validator
	policy    config.BookingPolicy
	logger    *zap.Logger
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}
