package httpd

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
	"github.com/mjnyampinga/Educational-File-Manager/internal/service"
)

func (h *Handler) SubmitAssignment(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	locale := localeFromContext(r.Context())

	if user.IsTeacher() {
		writeError(w, http.StatusForbidden, "Only students can submit assignments")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "multipart/form-data") {
		writeError(w, http.StatusBadRequest, "Content-Type must be multipart/form-data")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	assignmentID := r.FormValue("assignment_id")
	if assignmentID == "" {
		writeError(w, http.StatusBadRequest, "assignment_id is required")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	submission, err := h.submissionService.SubmitAssignment(r.Context(), service.SubmitInput{
		StudentID:    user.ID,
		ClassID:      chi.URLParam(r, "class_id"),
		AssignmentID: assignmentID,
		FileName:     fileHeader.Filename,
		Content:      fileBytes,
	})
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).
				Str("assignment_id", assignmentID).
				Msg("Submission failed")
			message = "Failed to submit assignment"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusCreated, h.translator.T(locale, "submission.created"), models.SubmitAssignmentResponse{
		SubmissionID: submission.ID,
		AssignmentID: submission.AssignmentID,
		ClassID:      submission.ClassID,
		SubmittedAt:  submission.CreatedAt,
	})
}

func (h *Handler) ListOwnSubmissions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	classID := chi.URLParam(r, "class_id")

	if user.IsTeacher() {
		writeError(w, http.StatusForbidden, "Only students have own submissions")
		return
	}

	submissions, err := h.submissionService.ListOwn(r.Context(), user.ID, classID)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("class_id", classID).Msg("Failed to list submissions")
			message = "Failed to list submissions"
		}
		writeError(w, status, message)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

func (h *Handler) ListAssignmentSubmissions(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	assignmentID := chi.URLParam(r, "assignment_id")

	submissions, err := h.submissionService.ListForAssignment(r.Context(), user.ID, assignmentID)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).
				Str("assignment_id", assignmentID).
				Msg("Failed to list submissions")
			message = "Failed to list submissions"
		}
		writeError(w, status, message)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

func (h *Handler) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	submissionID := chi.URLParam(r, "submission_id")
	locale := localeFromContext(r.Context())

	var req models.GradeSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.translator.Validate().Struct(req); err != nil {
		writeValidationError(w, h.translator.TranslateValidation(locale, err))
		return
	}

	submission, err := h.submissionService.Grade(r.Context(), user.ID, submissionID, *req.Grade, req.Feedback)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).
				Str("submission_id", submissionID).
				Msg("Grading failed")
			message = "Failed to grade submission"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusOK, h.translator.T(locale, "submission.graded"), submission)
}
