package models

import (
	"time"
)

type Class struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type ClassWithDetails struct {
	Class
	TeacherName  string `json:"teacher_name" db:"teacher_name"`
	StudentCount int    `json:"student_count" db:"student_count"`
}

type Enrollment struct {
	ClassID    string    `json:"class_id" db:"class_id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"`
}
