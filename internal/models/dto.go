package models

import (
	"time"
)

// Data Transfer Objects

type RegisterRequest struct {
	Name              string `json:"name" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	Role              string `json:"role" validate:"required,oneof=teacher student"`
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,oneof=en fr rw"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type UpdateProfileRequest struct {
	Name              string `json:"name" validate:"omitempty"`
	Email             string `json:"email" validate:"omitempty,email"`
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,oneof=en fr rw"`
}

type CreateClassRequest struct {
	Name string `json:"name" validate:"required"`
}

type EnrollStudentRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

type UploadFileResponse struct {
	FileID     string    `json:"file_id"`
	Name       string    `json:"name"`
	FileSize   int64     `json:"file_size"`
	Hash       string    `json:"hash"`
	MimeType   string    `json:"mime_type"`
	FileType   string    `json:"file_type"`
	ClassID    string    `json:"class_id"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type UpdateFileRequest struct {
	Name     string `json:"name" validate:"omitempty"`
	FileType string `json:"type" validate:"omitempty,oneof=resource assignment"`
	Deadline string `json:"deadline" validate:"omitempty"`
}

type SubmitAssignmentResponse struct {
	SubmissionID string    `json:"submission_id"`
	AssignmentID string    `json:"assignment_id"`
	ClassID      string    `json:"class_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type GradeSubmissionRequest struct {
	Grade    *int   `json:"grade" validate:"required,min=0,max=100"`
	Feedback string `json:"feedback" validate:"omitempty,max=2000"`
}
