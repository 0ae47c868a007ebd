package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/model"
)

// BookingStore записи из Store под именами методов сервиса
// (GetByID уже занят профилями).
type BookingStore struct {
	s *Store
}

func (s *Store) Bookings() *BookingStore {
	return &BookingStore{s: s}
}

func (r *BookingStore) Create(_ context.Context, booking *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if booking.ID == "" {
		return apperr.InvalidInput("booking id is required")
	}
	if !booking.Status.Valid() {
		return apperr.InvalidInput("unknown booking status")
	}
	if _, exists := r.s.bookings[booking.ID]; exists {
		return apperr.Conflict("booking already exists")
	}

	now := r.s.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = cloneBooking(booking)
	r.s.seq[booking.ID] = r.s.nextSeq()
	return nil
}

func (r *BookingStore) GetByID(_ context.Context, id string) (*model.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	return cloneBooking(b), nil
}

func (r *BookingStore) CompareAndSwap(_ context.Context, id string, expected, next model.BookingStatus, patch model.BookingPatch) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	if b.Status != expected {
		return nil, apperr.Conflict("booking status changed")
	}

	patch.Apply(b)
	b.Status = next
	b.UpdatedAt = r.s.now()
	return cloneBooking(b), nil
}

// ListByParty возвращает записи пользователя, кроме скрытых им самим, новые первыми
func (r *BookingStore) ListByParty(_ context.Context, userID string) ([]*model.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Booking
	for _, b := range r.s.bookings {
		if b.IsParty(userID) && !b.HiddenFor(userID) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return r.s.seq[out[i].ID] > r.s.seq[out[j].ID]
	})
	return out, nil
}

// SoftDelete скрывает запись у одной стороны, у другой она остаётся
func (r *BookingStore) SoftDelete(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok || !b.IsParty(userID) || b.HiddenFor(userID) {
		return apperr.NotFound("booking not found")
	}
	now := r.s.now()
	if userID == b.StudentID {
		b.StudentHiddenAt = &now
	} else {
		b.TutorHiddenAt = &now
	}
	b.UpdatedAt = now
	return nil
}

func cloneBooking(b *model.Booking) *model.Booking {
	cp := *b
	cp.StudentHiddenAt = cloneTime(b.StudentHiddenAt)
	cp.TutorHiddenAt = cloneTime(b.TutorHiddenAt)
	cp.Student = nil
	cp.Tutor = nil
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
