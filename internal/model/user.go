package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "ADMINISTRADOR"
	RoleProfessor Role = "PROFESOR"
	RoleStudent   Role = "ESTUDIANTE"
)

type User struct {
	ID             int64     `json:"id_usuario"`
	FirstName      string    `json:"nombre"`
	LastName       string    `json:"apellido"`
	Email          string    `json:"email"`
	Role           Role      `json:"rol"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"` // указатель - может быть nil
	CreatedAt      time.Time `json:"created_at"`
}

// FullName возвращает имя и фамилию через пробел
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessor
}
