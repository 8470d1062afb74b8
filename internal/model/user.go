package model

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleStaff   UserRole = "staff"
)

type User struct {
	ID         int64     `json:"id"`
	TelegramID *int64    `json:"telegram_id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       UserRole  `json:"role"`
	GroupID    *int64    `json:"group_id"` // только у студентов
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) EntityID() int64               { return u.ID }
func (u *User) SetCreatedAt(t time.Time)      { u.CreatedAt = t }
func (u *User) SetLastModifiedAt(t time.Time) { u.UpdatedAt = t }

// IsStudent может ли пользователь записываться на курсы
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// CanManageEnrollments может ли пользователь записывать других студентов
func (u *User) CanManageEnrollments() bool {
	return u.Role == RoleTeacher || u.Role == RoleStaff
}

// FullName возвращает имя для отображения
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
