package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Decision ответ репетитора на заявку
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// decisionStatus единственная таблица перевода решений репетитора в статусы.
// Остальной код пользуется Decision.Status и DecisionFor.
var decisionStatus = map[Decision]model.BookingStatus{
	DecisionAccepted: model.BookingStatusConfirmed,
	DecisionRejected: model.BookingStatusCancelled,
}

// ParseDecision принимает "accepted"/"rejected" без учёта регистра и пробелов
func ParseDecision(s string) (Decision, error) {
	d := Decision(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := decisionStatus[d]; !ok {
		return "", apperr.InvalidInput(`decision must be "accepted" or "rejected"`)
	}
	return d, nil
}

// Status возвращает статус, к которому ведёт решение
func (d Decision) Status() (model.BookingStatus, bool) {
	status, ok := decisionStatus[d]
	return status, ok
}

// DecisionFor переводит статус обратно в решение. У pending решения нет.
func DecisionFor(status model.BookingStatus) (Decision, bool) {
	for d, s := range decisionStatus {
		if s == status {
			return d, true
		}
	}
	return "", false
}

type CreateBookingInput struct {
	TutorID         string
	Date            time.Time
	DurationMinutes int
	Message         string
}

// BookingService машина состояний записи:
//
//	pending -> confirmed  (репетитор принял)
//	pending -> cancelled  (репетитор отклонил, студент отменил)
//	confirmed -> cancelled (студент отменил)
//
// Каждый переход пишется через compare-and-swap по прочитанному статусу,
// из двух одновременных запросов выигрывает один.
type BookingService struct {
	bookings BookingStore
	profiles ProfileStore
	policy   config.BookingPolicy
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewBookingService(
	bookings BookingStore,
	profiles ProfileStore,
	policy config.BookingPolicy,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		profiles: profiles,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create создаёт заявку на занятие. Только для студентов.
func (s *BookingService) Create(ctx context.Context, caller model.Identity, in CreateBookingInput) (*model.Booking, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}
	if !caller.IsStudent() {
		return nil, apperr.Forbidden("only students can request bookings")
	}

	if in.Date.IsZero() {
		return nil, apperr.InvalidInput("date is required")
	}
	if err := s.validateFields(&in.Date, &in.DurationMinutes, &in.Message); err != nil {
		return nil, err
	}
	if in.TutorID == "" {
		return nil, apperr.InvalidInput("tutor is required")
	}
	if in.TutorID == caller.UserID {
		return nil, apperr.InvalidInput("cannot book a session with yourself")
	}

	tutor, err := s.profiles.GetByID(ctx, in.TutorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("tutor not found")
		}
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	if tutor.Role != model.RoleTutor {
		return nil, apperr.NotFound("tutor not found")
	}

	booking := &model.Booking{
		ID:              s.newID(),
		StudentID:       caller.UserID,
		TutorID:         tutor.ID,
		Date:            in.Date.UTC(),
		DurationMinutes: in.DurationMinutes,
		Message:         strings.TrimSpace(in.Message),
		Status:          model.BookingStatusPending,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking requested",
		zap.String("booking_id", booking.ID),
		zap.String("student_id", booking.StudentID),
		zap.String("tutor_id", booking.TutorID),
		zap.Time("date", booking.Date),
		zap.Int("duration", booking.DurationMinutes),
	)

	s.attachProfiles(ctx, []*model.Booking{booking}, map[string]*model.User{tutor.ID: tutor})
	return booking, nil
}

// Edit меняет дату, длительность или сообщение ожидающей записи. Только студент записи.
func (s *BookingService) Edit(ctx context.Context, caller model.Identity, bookingID string, patch model.BookingPatch) (*model.Booking, error) {
	booking, err := s.loadForParty(ctx, caller, bookingID, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.BookingStatusPending {
		return nil, apperr.InvalidState(fmt.Sprintf("booking is %s and can no longer be edited", booking.Status))
	}
	if patch.IsEmpty() {
		return nil, apperr.InvalidInput("nothing to change")
	}
	if err := s.validateFields(patch.Date, patch.DurationMinutes, patch.Message); err != nil {
		return nil, err
	}
	if patch.Date != nil {
		utc := patch.Date.UTC()
		patch.Date = &utc
	}
	if patch.Message != nil {
		trimmed := strings.TrimSpace(*patch.Message)
		patch.Message = &trimmed
	}

	updated, err := s.transition(ctx, booking, model.BookingStatusPending, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking edited",
		zap.String("booking_id", updated.ID),
		zap.String("student_id", caller.UserID),
	)
	return updated, nil
}

// Decide применяет решение репетитора
func (s *BookingService) Decide(ctx context.Context, caller model.Identity, bookingID string, decision Decision) (*model.Booking, error) {
	booking, err := s.loadForParty(ctx, caller, bookingID, model.RoleTutor)
	if err != nil {
		return nil, err
	}

	next, ok := decision.Status()
	if !ok {
		return nil, apperr.InvalidInput(fmt.Sprintf("unknown decision %q", decision))
	}

	if booking.Status != model.BookingStatusPending {
		return nil, apperr.InvalidState(fmt.Sprintf("booking is already %s", booking.Status))
	}

	updated, err := s.transition(ctx, booking, next, model.BookingPatch{})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking decided",
		zap.String("booking_id", updated.ID),
		zap.String("tutor_id", caller.UserID),
		zap.String("decision", string(decision)),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// Accept подтверждает заявку
func (s *BookingService) Accept(ctx context.Context, caller model.Identity, bookingID string) (*model.Booking, error) {
	return s.Decide(ctx, caller, bookingID, DecisionAccepted)
}

// Reject отклоняет заявку
func (s *BookingService) Reject(ctx context.Context, caller model.Identity, bookingID string) (*model.Booking, error) {
	return s.Decide(ctx, caller, bookingID, DecisionRejected)
}

// Cancel отменяет ожидающую или подтверждённую запись. Только студент записи.
// Запись остаётся в списке со статусом cancelled.
func (s *BookingService) Cancel(ctx context.Context, caller model.Identity, bookingID string) (*model.Booking, error) {
	booking, err := s.loadForParty(ctx, caller, bookingID, model.RoleStudent)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled {
		return nil, apperr.InvalidState("booking is already cancelled")
	}

	updated, err := s.transition(ctx, booking, model.BookingStatusCancelled, model.BookingPatch{})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", updated.ID),
		zap.String("student_id", caller.UserID),
		zap.String("previous_status", string(booking.Status)),
	)
	return updated, nil
}

// Dismiss убирает отменённую запись из списка вызывающего. У второй стороны
// запись остаётся.
func (s *BookingService) Dismiss(ctx context.Context, caller model.Identity, bookingID string) error {
	booking, err := s.loadForParty(ctx, caller, bookingID, "")
	if err != nil {
		return err
	}

	if booking.Status != model.BookingStatusCancelled {
		return apperr.InvalidState("only cancelled bookings can be removed from the list")
	}

	if err := s.bookings.SoftDelete(ctx, booking.ID, caller.UserID); err != nil {
		return fmt.Errorf("dismiss booking: %w", err)
	}

	s.logger.Info("Booking dismissed",
		zap.String("booking_id", booking.ID),
		zap.String("user_id", caller.UserID),
	)
	return nil
}

// Get возвращает запись с профилями сторон. Только для участников.
func (s *BookingService) Get(ctx context.Context, caller model.Identity, bookingID string) (*model.Booking, error) {
	booking, err := s.loadForParty(ctx, caller, bookingID, "")
	if err != nil {
		return nil, err
	}

	s.attachProfiles(ctx, []*model.Booking{booking}, make(map[string]*model.User))
	return booking, nil
}

// ListMine возвращает записи пользователя, разделённые на ожидающие и завершённые
func (s *BookingService) ListMine(ctx context.Context, caller model.Identity) (model.BookingList, error) {
	if err := requireIdentity(caller); err != nil {
		return model.BookingList{}, err
	}

	bookings, err := s.bookings.ListByParty(ctx, caller.UserID)
	if err != nil {
		return model.BookingList{}, fmt.Errorf("list bookings: %w", err)
	}

	s.attachProfiles(ctx, bookings, make(map[string]*model.User))

	list := model.BookingList{
		Pending: make([]*model.Booking, 0),
		Settled: make([]*model.Booking, 0),
	}
	for _, b := range bookings {
		if b.Status == model.BookingStatusPending {
			list.Pending = append(list.Pending, b)
		} else {
			list.Settled = append(list.Settled, b)
		}
	}

	return list, nil
}

// loadForParty читает запись и проверяет, что пользователь её участник в роли role
// ("" любая сторона). Права проверяются до статуса.
func (s *BookingService) loadForParty(ctx context.Context, caller model.Identity, bookingID string, role model.Role) (*model.Booking, error) {
	if err := requireIdentity(caller); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	// скрытая стороной запись для неё больше не существует
	if booking.HiddenFor(caller.UserID) {
		return nil, apperr.NotFound("booking not found")
	}

	if !authorizeParty(caller, booking, role) {
		s.logger.Warn("Booking access denied",
			zap.String("booking_id", booking.ID),
			zap.String("user_id", caller.UserID),
			zap.String("role", string(caller.Role)),
			zap.String("required_role", string(role)),
		)
		return nil, apperr.Forbidden("not a party to this booking")
	}

	return booking, nil
}

func authorizeParty(caller model.Identity, booking *model.Booking, role model.Role) bool {
	switch role {
	case model.RoleStudent:
		return caller.IsStudent() && booking.StudentID == caller.UserID
	case model.RoleTutor:
		return caller.IsTutor() && booking.TutorID == caller.UserID
	default:
		return (caller.IsStudent() && booking.StudentID == caller.UserID) ||
			(caller.IsTutor() && booking.TutorID == caller.UserID)
	}
}

// transition пишет новый статус, если сохранённый не изменился
func (s *BookingService) transition(ctx context.Context, current *model.Booking, next model.BookingStatus, patch model.BookingPatch) (*model.Booking, error) {
	updated, err := s.bookings.CompareAndSwap(ctx, current.ID, current.Status, next, patch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrConflict):
			s.logger.Info("Booking transition lost a race",
				zap.String("booking_id", current.ID),
				zap.String("expected_status", string(current.Status)),
				zap.String("next_status", string(next)),
			)
			return nil, apperr.Conflict("booking was changed by another request")
		case errors.Is(err, apperr.ErrNotFound):
			return nil, apperr.NotFound("booking not found")
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.attachProfiles(ctx, []*model.Booking{updated}, make(map[string]*model.User))
	return updated, nil
}

func (s *BookingService) validateFields(date *time.Time, duration *int, message *string) error {
	if date != nil && !date.After(s.now()) {
		return apperr.InvalidInput("date must be in the future")
	}
	if duration != nil && !s.policy.DurationAllowed(*duration) {
		if len(s.policy.AllowedDurations) == 0 {
			return apperr.InvalidInput("duration must be positive")
		}
		return apperr.InvalidInput(fmt.Sprintf("duration must be one of %v minutes", s.policy.AllowedDurations))
	}
	if message != nil && s.policy.MaxMessageLength > 0 &&
		utf8.RuneCountInString(strings.TrimSpace(*message)) > s.policy.MaxMessageLength {
		return apperr.InvalidInput(fmt.Sprintf("message must not exceed %d characters", s.policy.MaxMessageLength))
	}
	return nil
}

// attachProfiles заполняет Student и Tutor. Удалённый профиль остаётся nil.
func (s *BookingService) attachProfiles(ctx context.Context, bookings []*model.Booking, cache map[string]*model.User) {
	lookup := func(id string) *model.User {
		if u, ok := cache[id]; ok {
			return u
		}
		u, err := s.profiles.GetByID(ctx, id)
		if err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				s.logger.Warn("Failed to load profile for booking", zap.String("user_id", id), zap.Error(err))
			}
			u = nil
		}
		cache[id] = u
		return u
	}

	for _, b := range bookings {
		b.Student = lookup(b.StudentID)
		b.Tutor = lookup(b.TutorID)
	}
}

func requireIdentity(caller model.Identity) error {
	if caller.UserID == "" || !caller.Role.Valid() {
		return apperr.Unauthenticated("caller identity is required")
	}
	return nil
}
