package model

// Identity вызывающий пользователь операции
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsStudent() bool { return i.Role == RoleStudent }

func (i Identity) IsTutor() bool { return i.Role == RoleTutor }
