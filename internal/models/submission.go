package models

import (
	"time"
)

type Submission struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	ClassID      string    `json:"class_id" db:"class_id"`
	StoragePath  string    `json:"storage_path" db:"storage_path"`
	OriginalName string    `json:"original_name" db:"original_name"`
	Grade        *int      `json:"grade,omitempty" db:"grade"`
	Feedback     string    `json:"feedback" db:"feedback"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type SubmissionWithDetails struct {
	Submission
	StudentName    string `json:"student_name" db:"student_name"`
	StudentEmail   string `json:"student_email" db:"student_email"`
	AssignmentName string `json:"assignment_name" db:"assignment_name"`
}
