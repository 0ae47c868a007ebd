package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// Valid проверяет, что роль известна
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTutor
}

// Opposite возвращает роль, профили которой предлагаются как кандидаты
func (r Role) Opposite() Role {
	if r == RoleTutor {
		return RoleStudent
	}
	return RoleTutor
}

type User struct {
	ID         string    `json:"id"`
	TelegramID *int64    `json:"-"`
	Role       Role      `json:"role"`
	Name       string    `json:"name"`
	Course     string    `json:"course"`
	Year       int       `json:"year"`
	Bio        string    `json:"bio"`
	Skills     []string  `json:"skills,omitempty"`      // tutor
	HelpNeeded []string  `json:"help_needed,omitempty"` // student
	CreatedAt  time.Time `json:"created_at"`
}

// Subjects возвращает предметы для подбора: навыки репетитора или запросы студента
func (u *User) Subjects() []string {
	if u.Role == RoleTutor {
		return u.Skills
	}
	return u.HelpNeeded
}
