package state

import "time"

// UserState текущий шаг диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Студент редактирует комментарий к записи
	StateEditBookingMessage UserState = "edit_booking_message"

	// Студент вводит новую дату записи
	StateEditBookingDate UserState = "edit_booking_date"

	// Студент вводит дату новой записи, затем выбирает длительность кнопкой
	StateCreateBookingDate     UserState = "create_booking_date"
	StateCreateBookingDuration UserState = "create_booking_duration"

	// Пользователь вводит строку поиска для /find
	StateSearchingCandidates UserState = "searching_candidates"
)

// Ключи временных данных диалога
const (
	KeyBookingID = "booking_id"
	KeyTutorID   = "tutor_id"
	KeyDate      = "date"
	KeyMatchOnly = "match_only"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Data      map[string]any
	UpdatedAt time.Time
}
