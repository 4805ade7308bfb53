package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotEnrolled        = errors.New("not enrolled in this class")
	ErrFileTooLarge       = errors.New("file size exceeds limit")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrEnqueueFailed      = errors.New("failed to schedule file processing")
)

// TopicFileProcess — единственный топик очереди для обработки загрузок.
// Ровно одна регистрация обработчика на процесс (см. internal/app).
const TopicFileProcess = "file.process"
