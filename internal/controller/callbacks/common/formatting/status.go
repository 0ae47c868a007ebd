package formatting

import (
	"github.com/Freeeeeet/tutor_match/internal/model"
	"github.com/Freeeeeet/tutor_match/internal/service"
)

// BookingStatusDisplay представляет отображение статуса записи
type BookingStatusDisplay struct {
	Emoji string
	Text  string
}

var decisionDisplays = map[service.Decision]BookingStatusDisplay{
	service.DecisionAccepted: {"✅", "Принята"},
	service.DecisionRejected: {"❌", "Отклонена"},
}

// GetBookingStatusDisplay возвращает emoji и текст статуса так, как его видит
// участник с ролью viewer. Учитель видит своё решение (принята/отклонена),
// студент видит статус записи.
func GetBookingStatusDisplay(status model.BookingStatus, viewer model.Role) BookingStatusDisplay {
	if status == model.BookingStatusPending {
		return BookingStatusDisplay{"⏳", "Ожидает ответа"}
	}

	if viewer == model.RoleTutor {
		if d, ok := service.DecisionFor(status); ok {
			return decisionDisplays[d]
		}
	}

	switch status {
	case model.BookingStatusConfirmed:
		return BookingStatusDisplay{"✅", "Подтверждена"}
	case model.BookingStatusCancelled:
		return BookingStatusDisplay{"❌", "Отменена"}
	}
	return BookingStatusDisplay{"❓", "Неизвестно"}
}
