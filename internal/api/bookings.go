package api

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/Freeeeeet/tutor_match/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type createBookingRequest struct {
	TutorID  string    `json:"tutor_id" validate:"required"`
	Date     time.Time `json:"date" validate:"required"`
	Duration int       `json:"duration" validate:"required,gt=0"`
	Message  string    `json:"message"`
}

type editBookingRequest struct {
	Date     *time.Time `json:"date"`
	Duration *int       `json:"duration" validate:"omitempty,gt=0"`
	Message  *string    `json:"message"`
}

type decisionRequest struct {
	Decision string `json:"decision" validate:"required"`
}

type bookingListResponse struct {
	Pending []*model.Booking `json:"pending"`
	Settled []*model.Booking `json:"settled"`
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller := h.caller(r)
	// Сначала роль: репетитор получает Forbidden при любом теле запроса
	if caller.UserID != "" && !caller.IsStudent() {
		writeError(w, apperr.Forbidden("only students can request bookings"), h.logger)
		return
	}

	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	booking, err := h.bookings.Create(r.Context(), caller, service.CreateBookingInput{
		TutorID:         req.TutorID,
		Date:            req.Date,
		DurationMinutes: req.Duration,
		Message:         req.Message,
	})
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, booking, h.logger)
}

func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookings.ListMine(r.Context(), h.caller(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, bookingListResponse{
		Pending: list.Pending,
		Settled: list.Settled,
	}, h.logger)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.Get(r.Context(), h.caller(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, booking, h.logger)
}

func (h *Handler) EditBooking(w http.ResponseWriter, r *http.Request) {
	var req editBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	booking, err := h.bookings.Edit(r.Context(), h.caller(r), mux.Vars(r)["id"], model.BookingPatch{
		Date:            req.Date,
		DurationMinutes: req.Duration,
		Message:         req.Message,
	})
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, booking, h.logger)
}

func (h *Handler) DecideBooking(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	decision, err := service.ParseDecision(req.Decision)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	h.decide(w, r, decision)
}

func (h *Handler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, service.DecisionAccepted)
}

func (h *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, service.DecisionRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision service.Decision) {
	booking, err := h.bookings.Decide(r.Context(), h.caller(r), mux.Vars(r)["id"], decision)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, booking, h.logger)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.Cancel(r.Context(), h.caller(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, booking, h.logger)
}

func (h *Handler) DismissBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.bookings.Dismiss(r.Context(), h.caller(r), id); err != nil {
		writeError(w, err, h.logger)
		return
	}
	h.logger.Debug("Booking dismissed via API", zap.String("booking_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// caller возвращает пользователя из AuthMiddleware. Без него сервисы
// вернут Unauthenticated.
func (h *Handler) caller(r *http.Request) model.Identity {
	id, _ := IdentityFromContext(r.Context())
	return id
}
