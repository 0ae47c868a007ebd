package keyboard

import (
	"strconv"

	"github.com/Freeeeeet/tutor_match/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/go-telegram/bot/models"
)

// BookingActions кнопки, доступные участнику с ролью viewer для записи.
// Учитель принимает или отклоняет ожидающую запись, студент редактирует
// или отменяет её, отменённую запись любой участник может убрать из списка.
func BookingActions(booking *model.Booking, viewer model.Role) *Builder {
	kb := NewBuilder()
	id := booking.ID

	switch {
	case booking.Status == model.BookingStatusPending && viewer == model.RoleTutor:
		kb.Row(
			Button("✅ Принять", callbacktypes.Data(callbacktypes.AcceptBooking, id)),
			Button("❌ Отклонить", callbacktypes.Data(callbacktypes.RejectBooking, id)),
		)
	case booking.Status == model.BookingStatusPending && viewer == model.RoleStudent:
		kb.Row(
			Button("📅 Дата", callbacktypes.Data(callbacktypes.EditDate, id)),
			Button("⏱ Длительность", callbacktypes.Data(callbacktypes.EditDuration, id)),
			Button("💬 Комментарий", callbacktypes.Data(callbacktypes.EditMessage, id)),
		)
		kb.Row(Button("🚫 Отменить запись", callbacktypes.Data(callbacktypes.CancelBooking, id)))
	case booking.Status == model.BookingStatusConfirmed && viewer == model.RoleStudent:
		kb.Row(Button("🚫 Отменить запись", callbacktypes.Data(callbacktypes.CancelBooking, id)))
	case booking.Status == model.BookingStatusCancelled:
		kb.Row(Button("🗑 Убрать из списка", callbacktypes.Data(callbacktypes.DismissBooking, id)))
	}

	return kb
}

// ConfirmCancel кнопки подтверждения отмены
func ConfirmCancel(bookingID string) *Builder {
	return NewBuilder().Row(
		Button("Да, отменить", callbacktypes.Data(callbacktypes.ConfirmCancel, bookingID)),
		Button("Нет", callbacktypes.Noop),
	)
}

// Durations кнопки выбора длительности. data строит callback data для
// количества минут.
func Durations(allowed []int, data func(minutes string) string) *Builder {
	kb := NewBuilder()
	row := make([]models.InlineKeyboardButton, 0, 3)
	for _, m := range allowed {
		minutes := strconv.Itoa(m)
		row = append(row, Button(minutes+" мин", data(minutes)))
		if len(row) == 3 {
			kb.Row(row...)
			row = make([]models.InlineKeyboardButton, 0, 3)
		}
	}
	kb.Row(row...)
	return kb
}

// Candidate кнопки под карточкой кандидата. Записаться и добавить
// в закладки может только студент.
func Candidate(candidate *model.User, viewer model.Role) *Builder {
	kb := NewBuilder()
	if viewer == model.RoleStudent && candidate.Role == model.RoleTutor {
		kb.Row(
			Button("📝 Записаться", callbacktypes.Data(callbacktypes.BookTutor, candidate.ID)),
			Button("⭐️ В закладки", callbacktypes.Data(callbacktypes.ToggleBookmark, candidate.ID)),
		)
	}
	return kb
}
