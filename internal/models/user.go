package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Email             string    `json:"email" db:"email"`
	PasswordHash      []byte    `json:"-" db:"password_hash"`
	Role              string    `json:"role" db:"role"` // teacher, student
	PreferredLanguage string    `json:"preferred_language" db:"preferred_language"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

func (r UserRole) String() string {
	return string(r)
}

func IsValidUserRole(role string) bool {
	switch role {
	case "teacher", "student":
		return true
	default:
		return false
	}
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher.String()
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent.String()
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}
