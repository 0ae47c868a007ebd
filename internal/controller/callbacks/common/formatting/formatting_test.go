package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBookingStatusDisplay(t *testing.T) {
	tests := []struct {
		status model.BookingStatus
		viewer model.Role
		want   string
	}{
		{model.BookingStatusPending, model.RoleStudent, "Ожидает ответа"},
		{model.BookingStatusPending, model.RoleTutor, "Ожидает ответа"},
		{model.BookingStatusConfirmed, model.RoleStudent, "Подтверждена"},
		{model.BookingStatusConfirmed, model.RoleTutor, "Принята"},
		{model.BookingStatusCancelled, model.RoleStudent, "Отменена"},
		{model.BookingStatusCancelled, model.RoleTutor, "Отклонена"},
		{model.BookingStatus("archived"), model.RoleStudent, "Неизвестно"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status)+"/"+string(tt.viewer), func(t *testing.T) {
			assert.Equal(t, tt.want, GetBookingStatusDisplay(tt.status, tt.viewer).Text)
		})
	}
}

func TestFormatBooking(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	booking := &model.Booking{
		Date:            time.Date(2026, 3, 15, 15, 30, 0, 0, time.UTC),
		DurationMinutes: 90,
		Message:         "integrals",
		Status:          model.BookingStatusPending,
		Student:         &model.User{Name: "Sam", Course: "CS"},
		Tutor:           &model.User{Name: "Tom"},
	}

	student := FormatBooking(booking, model.RoleStudent, msk)
	assert.Contains(t, student, "Учитель: Tom")
	assert.Contains(t, student, "15.03.2026 18:30, 1 ч 30 мин")
	assert.Contains(t, student, "💬 integrals")

	tutor := FormatBooking(booking, model.RoleTutor, time.UTC)
	assert.Contains(t, tutor, "Студент: Sam (CS)")
	assert.Contains(t, tutor, "15.03.2026 15:30")

	booking.Tutor = nil
	assert.Contains(t, FormatBooking(booking, model.RoleStudent, time.UTC), "профиль удалён")
}

func TestFormatProfile(t *testing.T) {
	tutor := &model.User{Role: model.RoleTutor, Name: "Tom", Course: "Math", Year: 3, Skills: []string{"Calculus", "Python"}}

	got := FormatProfile(tutor, []string{"python"})
	assert.Contains(t, got, "Math, 3 курс")
	assert.Contains(t, got, "Помогает с: Calculus, Python")
	assert.Contains(t, got, "Совпадения: python")

	student := &model.User{Role: model.RoleStudent, Name: "Sam", HelpNeeded: []string{"Go"}}
	assert.Contains(t, FormatProfile(student, nil), "Нужна помощь с: Go")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "30 мин", FormatDuration(30))
	assert.Equal(t, "1 ч", FormatDuration(60))
	assert.Equal(t, "2 ч 15 мин", FormatDuration(135))
}

func TestParseDateTime(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)

	got, err := ParseDateTime("15.03.2026 18:30", msk)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 15, 15, 30, 0, 0, time.UTC)))

	_, err = ParseDateTime("2026-03-15 18:30", msk)
	assert.Error(t, err)
}
