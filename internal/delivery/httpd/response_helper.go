package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mjnyampinga/Educational-File-Manager/internal/service"
)

// Функции для отправки ответов
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	response := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
			"type":    http.StatusText(status),
		},
		"success":   false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, status, response)
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// writeSuccessMessage добавляет к ответу локализованное сообщение
func writeSuccessMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	response := map[string]interface{}{
		"success":   true,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, status, response)
}

func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	response := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    http.StatusBadRequest,
			"message": "Validation failed",
			"type":    http.StatusText(http.StatusBadRequest),
			"fields":  fields,
		},
		"success":   false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusBadRequest, response)
}

// mapServiceError переводит ошибки сервисного слоя в HTTP-статусы
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, service.ErrNotEnrolled):
		return http.StatusForbidden, "Student is not enrolled in this class"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "Email is already registered"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File size exceeds limit"
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		return http.StatusUnsupportedMediaType, "File type not allowed"
	case errors.Is(err, service.ErrEnqueueFailed):
		return http.StatusServiceUnavailable, "Failed to schedule file processing"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
