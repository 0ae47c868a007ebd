package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
	"github.com/Freeeeeet/tutor_match/internal/config"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreate_StartsPending(t *testing.T) {
	f := newFixture(t)

	b := f.book(t)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, "s-1", b.StudentID)
	assert.Equal(t, "t-1", b.TutorID)
	assert.Equal(t, 60, b.DurationMinutes)
	require.NotNil(t, b.Tutor)
	assert.Equal(t, "Tom", b.Tutor.Name)

	stored, err := f.store.Bookings().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, stored.Status)
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	future := fixedNow.Add(time.Hour)

	tests := []struct {
		name   string
		caller model.Identity
		in     CreateBookingInput
		want   *apperr.Error
	}{
		{"anonymous", model.Identity{}, CreateBookingInput{TutorID: "t-1", Date: future, DurationMinutes: 60}, apperr.ErrUnauthenticated},
		{"tutor caller", f.tutor, CreateBookingInput{TutorID: "t-2", Date: future, DurationMinutes: 60}, apperr.ErrForbidden},
		{"missing date", f.student, CreateBookingInput{TutorID: "t-1", DurationMinutes: 60}, apperr.ErrInvalidInput},
		{"past date", f.student, CreateBookingInput{TutorID: "t-1", Date: fixedNow.Add(-time.Minute), DurationMinutes: 60}, apperr.ErrInvalidInput},
		{"now is not future", f.student, CreateBookingInput{TutorID: "t-1", Date: fixedNow, DurationMinutes: 60}, apperr.ErrInvalidInput},
		{"duration not allowed", f.student, CreateBookingInput{TutorID: "t-1", Date: future, DurationMinutes: 45}, apperr.ErrInvalidInput},
		{"zero duration", f.student, CreateBookingInput{TutorID: "t-1", Date: future}, apperr.ErrInvalidInput},
		{"message too long", f.student, CreateBookingInput{TutorID: "t-1", Date: future, DurationMinutes: 30, Message: strings.Repeat("x", 501)}, apperr.ErrInvalidInput},
		{"missing tutor", f.student, CreateBookingInput{Date: future, DurationMinutes: 60}, apperr.ErrInvalidInput},
		{"self", f.student, CreateBookingInput{TutorID: "s-1", Date: future, DurationMinutes: 60}, apperr.ErrInvalidInput},
		{"unknown tutor", f.student, CreateBookingInput{TutorID: "t-404", Date: future, DurationMinutes: 60}, apperr.ErrNotFound},
		{"target is a student", f.student, CreateBookingInput{TutorID: "s-2", Date: future, DurationMinutes: 60}, apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookings.Create(context.Background(), tt.caller, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := f.bookings.ListMine(context.Background(), f.student)
	require.NoError(t, err)
	assert.Empty(t, list.Pending, "rejected creates must not persist")
}

func TestCreate_AnyPositiveDurationWhenPolicyOpen(t *testing.T) {
	f := newFixture(t)
	policy := config.DefaultBookingPolicy()
	policy.AllowedDurations = nil
	f.bookings.policy = policy

	b, err := f.bookings.Create(context.Background(), f.student, CreateBookingInput{
		TutorID: "t-1", Date: fixedNow.Add(time.Hour), DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, b.DurationMinutes)

	_, err = f.bookings.Create(context.Background(), f.student, CreateBookingInput{
		TutorID: "t-1", Date: fixedNow.Add(time.Hour), DurationMinutes: -1,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestScenario_CreateAcceptCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t)

	accepted, err := f.bookings.Accept(ctx, f.tutor, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, accepted.Status)

	list, err := f.bookings.ListMine(ctx, f.student)
	require.NoError(t, err)
	require.Len(t, list.Confirmed(), 1)
	assert.Empty(t, list.Pending)

	cancelled, err := f.bookings.Cancel(ctx, f.student, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

	list, err = f.bookings.ListMine(ctx, f.student)
	require.NoError(t, err)
	assert.Empty(t, list.Pending)
	assert.Empty(t, list.Confirmed())
	require.Len(t, list.Cancelled(), 1)
	assert.Equal(t, b.ID, list.Cancelled()[0].ID)
}

func TestEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	newDate := fixedNow.Add(48 * time.Hour)
	duration := 90
	message := "  actually, limits  "

	updated, err := f.bookings.Edit(ctx, f.student, b.ID, model.BookingPatch{
		Date:            &newDate,
		DurationMinutes: &duration,
		Message:         &message,
	})
	require.NoError(t, err)

	assert.True(t, newDate.Equal(updated.Date))
	assert.Equal(t, 90, updated.DurationMinutes)
	assert.Equal(t, "actually, limits", updated.Message)
	assert.Equal(t, model.BookingStatusPending, updated.Status)
}

func TestEdit_PartialPatchKeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	b := f.book(t)

	duration := 30
	updated, err := f.bookings.Edit(context.Background(), f.student, b.ID, model.BookingPatch{DurationMinutes: &duration})
	require.NoError(t, err)

	assert.Equal(t, 30, updated.DurationMinutes)
	assert.True(t, b.Date.Equal(updated.Date))
	assert.Equal(t, b.Message, updated.Message)
}

func TestEdit_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	past := fixedNow.Add(-time.Hour)
	badDuration := 15

	tests := []struct {
		name   string
		caller model.Identity
		patch  model.BookingPatch
		want   *apperr.Error
	}{
		{"other student", f.otherStudent, model.BookingPatch{DurationMinutes: &badDuration}, apperr.ErrForbidden},
		{"tutor of booking", f.tutor, model.BookingPatch{DurationMinutes: &badDuration}, apperr.ErrForbidden},
		{"empty patch", f.student, model.BookingPatch{}, apperr.ErrInvalidInput},
		{"past date", f.student, model.BookingPatch{Date: &past}, apperr.ErrInvalidInput},
		{"bad duration", f.student, model.BookingPatch{DurationMinutes: &badDuration}, apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookings.Edit(ctx, tt.caller, b.ID, tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.bookings.Edit(ctx, f.student, "missing", model.BookingPatch{DurationMinutes: &badDuration})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEdit_AfterRejectIsInvalidState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	_, err := f.bookings.Reject(ctx, f.tutor, b.ID)
	require.NoError(t, err)

	msg := "one more thing"
	_, err = f.bookings.Edit(ctx, f.student, b.ID, model.BookingPatch{Message: &msg})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestForbiddenIsCheckedBeforeState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	_, err := f.bookings.Reject(ctx, f.tutor, b.ID)
	require.NoError(t, err)

	msg := "hi"
	_, err = f.bookings.Edit(ctx, f.otherStudent, b.ID, model.BookingPatch{Message: &msg})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.bookings.Accept(ctx, f.otherTutor, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.bookings.Cancel(ctx, f.otherStudent, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestDecide_RoleRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	_, err := f.bookings.Accept(ctx, f.student, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden, "student cannot accept")

	_, err = f.bookings.Reject(ctx, f.student, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden, "student cannot reject")

	_, err = f.bookings.Reject(ctx, f.otherTutor, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden, "other tutor cannot reject")

	// a tutor-role identity carrying the student's id is still not the student
	_, err = f.bookings.Cancel(ctx, model.Identity{UserID: "s-1", Role: model.RoleTutor}, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.bookings.Cancel(ctx, f.tutor, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden, "tutor cannot cancel")

	rejected, err := f.bookings.Reject(ctx, f.tutor, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, rejected.Status)
}

func TestTerminalStatesHaveNoWayBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	msg := "late edit"

	confirmed := f.book(t)
	_, err := f.bookings.Accept(ctx, f.tutor, confirmed.ID)
	require.NoError(t, err)

	_, err = f.bookings.Accept(ctx, f.tutor, confirmed.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = f.bookings.Reject(ctx, f.tutor, confirmed.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = f.bookings.Edit(ctx, f.student, confirmed.ID, model.BookingPatch{Message: &msg})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.bookings.Cancel(ctx, f.student, confirmed.ID)
	require.NoError(t, err)

	_, err = f.bookings.Cancel(ctx, f.student, confirmed.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = f.bookings.Accept(ctx, f.tutor, confirmed.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = f.bookings.Reject(ctx, f.tutor, confirmed.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = f.bookings.Edit(ctx, f.student, confirmed.ID, model.BookingPatch{Message: &msg})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	got, err := f.bookings.Get(ctx, f.student, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)
}

func TestConcurrentDecisions_ExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for round := 0; round < 50; round++ {
		b := f.book(t)

		var (
			wg       sync.WaitGroup
			start    = make(chan struct{})
			results  = make([]error, 2)
			decision = []Decision{DecisionAccepted, DecisionRejected}
		)
		for i := range decision {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, results[i] = f.bookings.Decide(ctx, f.tutor, b.ID, decision[i])
			}(i)
		}
		close(start)
		wg.Wait()

		successes := 0
		for _, err := range results {
			if err == nil {
				successes++
				continue
			}
			code := apperr.CodeOf(err)
			assert.Contains(t, []apperr.Code{apperr.CodeConflict, apperr.CodeInvalidState}, code)
		}
		assert.Equal(t, 1, successes, "round %d", round)
	}
}

func TestConcurrentCancels_ExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	const callers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		start  = make(chan struct{})
		losers []apperr.Code
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.bookings.Cancel(ctx, f.student, b.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				return
			}
			losers = append(losers, apperr.CodeOf(err))
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, wins)
	for _, code := range losers {
		assert.Contains(t, []apperr.Code{apperr.CodeConflict, apperr.CodeInvalidState}, code)
	}
}

// racingStore lets a test slip a competing write between the service's read
// and its compare-and-swap.
type racingStore struct {
	BookingStore
	beforeCAS func()
}

func (r *racingStore) CompareAndSwap(ctx context.Context, id string, expected, next model.BookingStatus, patch model.BookingPatch) (*model.Booking, error) {
	if r.beforeCAS != nil {
		r.beforeCAS()
		r.beforeCAS = nil
	}
	return r.BookingStore.CompareAndSwap(ctx, id, expected, next, patch)
}

func TestStaleReadYieldsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	racing := &racingStore{BookingStore: f.store.Bookings()}
	svc := NewBookingService(racing, f.store, config.DefaultBookingPolicy(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }

	racing.beforeCAS = func() {
		_, err := f.store.Bookings().CompareAndSwap(ctx, b.ID, model.BookingStatusPending, model.BookingStatusCancelled, model.BookingPatch{})
		require.NoError(t, err)
	}

	_, err := svc.Accept(ctx, f.tutor, b.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, stored.Status, "lost race must not overwrite")
}

func TestDismiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	err := f.bookings.Dismiss(ctx, f.student, b.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState, "pending booking cannot be dismissed")

	_, err = f.bookings.Reject(ctx, f.tutor, b.ID)
	require.NoError(t, err)

	err = f.bookings.Dismiss(ctx, f.otherStudent, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, f.bookings.Dismiss(ctx, f.tutor, b.ID))
	assert.ErrorIs(t, f.bookings.Dismiss(ctx, f.tutor, b.ID), apperr.ErrNotFound)

	tutorList, err := f.bookings.ListMine(ctx, f.tutor)
	require.NoError(t, err)
	assert.Empty(t, tutorList.Settled)
	_, err = f.bookings.Get(ctx, f.tutor, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// у студента запись остаётся, пока он сам её не уберёт
	studentList, err := f.bookings.ListMine(ctx, f.student)
	require.NoError(t, err)
	require.Len(t, studentList.Settled, 1)
	assert.Equal(t, b.ID, studentList.Settled[0].ID)
	got, err := f.bookings.Get(ctx, f.student, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)

	require.NoError(t, f.bookings.Dismiss(ctx, f.student, b.ID))
	studentList, err = f.bookings.ListMine(ctx, f.student)
	require.NoError(t, err)
	assert.Empty(t, studentList.Settled)
	_, err = f.bookings.Get(ctx, f.student, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t)

	got, err := f.bookings.Get(ctx, f.tutor, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Student)
	require.NotNil(t, got.Tutor)
	assert.Equal(t, "Sam", got.Student.Name)
	assert.Equal(t, "Tom", got.Tutor.Name)

	_, err = f.bookings.Get(ctx, f.otherTutor, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestListMine_PartitionsForBothParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.book(t)
	second := f.book(t)
	_, err := f.bookings.Accept(ctx, f.tutor, first.ID)
	require.NoError(t, err)

	for _, caller := range []model.Identity{f.student, f.tutor} {
		list, err := f.bookings.ListMine(ctx, caller)
		require.NoError(t, err)

		require.Len(t, list.Pending, 1)
		assert.Equal(t, second.ID, list.Pending[0].ID)
		require.Len(t, list.Settled, 1)
		assert.Equal(t, first.ID, list.Settled[0].ID)
	}

	list, err := f.bookings.ListMine(ctx, f.otherStudent)
	require.NoError(t, err)
	assert.NotNil(t, list.Pending)
	assert.Empty(t, list.Pending)
	assert.Empty(t, list.Settled)

	_, err = f.bookings.ListMine(ctx, model.Identity{})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestDecisionVocabulary(t *testing.T) {
	d, err := ParseDecision(" Accepted ")
	require.NoError(t, err)
	assert.Equal(t, DecisionAccepted, d)

	status, ok := d.Status()
	require.True(t, ok)
	assert.Equal(t, model.BookingStatusConfirmed, status)

	status, ok = DecisionRejected.Status()
	require.True(t, ok)
	assert.Equal(t, model.BookingStatusCancelled, status)

	back, ok := DecisionFor(model.BookingStatusConfirmed)
	require.True(t, ok)
	assert.Equal(t, DecisionAccepted, back)

	_, ok = DecisionFor(model.BookingStatusPending)
	assert.False(t, ok)

	_, err = ParseDecision("confirmed")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestDecide_UnknownDecision(t *testing.T) {
	f := newFixture(t)
	b := f.book(t)

	_, err := f.bookings.Decide(context.Background(), f.tutor, b.ID, Decision("maybe"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	// личность проверяется раньше решения
	_, err = f.bookings.Decide(context.Background(), model.Identity{}, b.ID, Decision("maybe"))
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = f.bookings.Decide(context.Background(), f.otherTutor, b.ID, Decision("maybe"))
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
