package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/Freeeeeet/tutor_match/internal/repository/memory"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	bookings *BookingService
	matches  *MatchService
	marks    *BookmarkService
	users    *UserService

	student      model.Identity
	otherStudent model.Identity
	tutor        model.Identity
	otherTutor   model.Identity
}

func int64Ptr(v int64) *int64 { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	store.PutUser(&model.User{ID: "s-1", TelegramID: int64Ptr(1001), Role: model.RoleStudent, Name: "Sam", Course: "CS", HelpNeeded: []string{"python", "Go"}})
	store.PutUser(&model.User{ID: "s-2", Role: model.RoleStudent, Name: "Sue", Course: "Biology", HelpNeeded: []string{"Biology"}})
	store.PutUser(&model.User{ID: "t-1", TelegramID: int64Ptr(2001), Role: model.RoleTutor, Name: "Tom", Course: "Math", Skills: []string{"Calculus", "Python"}})
	store.PutUser(&model.User{ID: "t-2", Role: model.RoleTutor, Name: "Tia", Course: "Chemistry", Skills: []string{"Chemistry"}})

	logger := zap.NewNop()
	bookings := NewBookingService(store.Bookings(), store, config.DefaultBookingPolicy(), logger)
	bookings.now = func() time.Time { return fixedNow }

	return &fixture{
		store:        store,
		bookings:     bookings,
		matches:      NewMatchService(store, logger),
		marks:        NewBookmarkService(store, store, logger),
		users:        NewUserService(store, logger),
		student:      model.Identity{UserID: "s-1", Role: model.RoleStudent},
		otherStudent: model.Identity{UserID: "s-2", Role: model.RoleStudent},
		tutor:        model.Identity{UserID: "t-1", Role: model.RoleTutor},
		otherTutor:   model.Identity{UserID: "t-2", Role: model.RoleTutor},
	}
}

// book creates a pending booking from the fixture student to the fixture tutor.
func (f *fixture) book(t *testing.T) *model.Booking {
	t.Helper()

	b, err := f.bookings.Create(context.Background(), f.student, CreateBookingInput{
		TutorID:         f.tutor.UserID,
		Date:            fixedNow.Add(24 * time.Hour),
		DurationMinutes: 60,
		Message:         "help with integrals",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}
