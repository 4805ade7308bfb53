package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req models.CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	locale := localeFromContext(r.Context())
	if err := h.translator.Validate().Struct(req); err != nil {
		writeValidationError(w, h.translator.TranslateValidation(locale, err))
		return
	}

	class, err := h.classService.CreateClass(r.Context(), user.ID, req.Name)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("Class creation failed")
			message = "Failed to create class"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusCreated, h.translator.T(locale, "class.created"), class)
}

func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	classes, err := h.classService.ListTeacherClasses(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list classes")
		writeError(w, http.StatusInternalServerError, "Failed to list classes")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"classes": classes,
		"count":   len(classes),
	})
}

func (h *Handler) GetClass(w http.ResponseWriter, r *http.Request) {
	classID := chi.URLParam(r, "class_id")
	if classID == "" {
		writeError(w, http.StatusBadRequest, "Class ID is required")
		return
	}

	class, err := h.classService.GetClass(r.Context(), classID)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("class_id", classID).Msg("Failed to get class")
			message = "Failed to get class"
		}
		writeError(w, status, message)
		return
	}

	writeSuccess(w, class)
}

func (h *Handler) EnrollStudent(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	classID := chi.URLParam(r, "class_id")

	var req models.EnrollStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	locale := localeFromContext(r.Context())
	if err := h.translator.Validate().Struct(req); err != nil {
		writeValidationError(w, h.translator.TranslateValidation(locale, err))
		return
	}

	if err := h.classService.EnrollStudent(r.Context(), user, classID, req.StudentID); err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).
				Str("class_id", classID).
				Str("student_id", req.StudentID).
				Msg("Enrollment failed")
			message = "Failed to enroll student"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusOK, h.translator.T(locale, "student.enrolled"), map[string]interface{}{
		"class_id":   classID,
		"student_id": req.StudentID,
	})
}
