package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // waiting for the tutor's decision
	BookingStatusConfirmed BookingStatus = "confirmed" // accepted by the tutor
	BookingStatusCancelled BookingStatus = "cancelled" // rejected by the tutor or cancelled by the student
)

// Valid проверяет, что статус известен
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID              string        `json:"id"`
	StudentID       string        `json:"student_id"`
	TutorID         string        `json:"tutor_id"`
	Date            time.Time     `json:"date"`
	DurationMinutes int           `json:"duration"`
	Message         string        `json:"message,omitempty"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Dismiss скрывает запись только у того, кто её скрыл
	StudentHiddenAt *time.Time `json:"-"`
	TutorHiddenAt   *time.Time `json:"-"`

	// Заполняются для отображения, в базе не хранятся
	Student *User `json:"student,omitempty"`
	Tutor   *User `json:"tutor,omitempty"`
}

// IsParty сообщает, является ли userID студентом или репетитором записи
func (b *Booking) IsParty(userID string) bool {
	return b.StudentID == userID || b.TutorID == userID
}

// HiddenFor сообщает, скрыл ли userID запись у себя
func (b *Booking) HiddenFor(userID string) bool {
	switch userID {
	case b.StudentID:
		return b.StudentHiddenAt != nil
	case b.TutorID:
		return b.TutorHiddenAt != nil
	}
	return false
}

// BookingPatch поля, которые может менять студент. nil означает "не менять"
type BookingPatch struct {
	Date            *time.Time
	DurationMinutes *int
	Message         *string
}

// IsEmpty сообщает, что патч ничего не меняет
func (p BookingPatch) IsEmpty() bool {
	return p.Date == nil && p.DurationMinutes == nil && p.Message == nil
}

// Apply переносит заданные поля в b
func (p BookingPatch) Apply(b *Booking) {
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.DurationMinutes != nil {
		b.DurationMinutes = *p.DurationMinutes
	}
	if p.Message != nil {
		b.Message = *p.Message
	}
}

// BookingList записи пользователя: Pending ждут решения, Settled подтверждены или отменены
type BookingList struct {
	Pending []*Booking `json:"pending"`
	Settled []*Booking `json:"settled"`
}

// Confirmed возвращает подтверждённые записи
func (l BookingList) Confirmed() []*Booking {
	var out []*Booking
	for _, b := range l.Settled {
		if b.Status == BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	return out
}

// Cancelled возвращает отменённые записи
func (l BookingList) Cancelled() []*Booking {
	var out []*Booking
	for _, b := range l.Settled {
		if b.Status == BookingStatusCancelled {
			out = append(out, b)
		}
	}
	return out
}
