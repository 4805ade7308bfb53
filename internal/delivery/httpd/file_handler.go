package httpd

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
	"github.com/mjnyampinga/Educational-File-Manager/internal/service"
)

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	locale := localeFromContext(r.Context())

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "multipart/form-data") {
		writeError(w, http.StatusBadRequest, "Content-Type must be multipart/form-data")
		return
	}

	// Парсим multipart форму
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	classID := r.FormValue("class_id")
	if classID == "" {
		writeError(w, http.StatusBadRequest, "class_id is required")
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

	name := r.FormValue("name")
	if name == "" {
		name = fileHeader.Filename
	}

	fileType := r.FormValue("type")
	if fileType == "" {
		fileType = models.FileTypeResource.String()
	}
	if !models.IsValidFileType(fileType) {
		writeError(w, http.StatusBadRequest, "File type must be 'resource' or 'assignment'")
		return
	}

	var deadline *time.Time
	if deadlineStr := r.FormValue("deadline"); deadlineStr != "" {
		parsed, err := time.Parse(time.RFC3339, deadlineStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Deadline must be an RFC3339 timestamp")
			return
		}
		deadline = &parsed
	}
	if fileType == models.FileTypeAssignment.String() && deadline == nil {
		writeError(w, http.StatusBadRequest, "Assignments require a deadline")
		return
	}

	uploaded, err := h.uploadService.UploadFile(r.Context(), service.UploadInput{
		TeacherID: user.ID,
		ClassID:   classID,
		Name:      name,
		FileType:  fileType,
		Deadline:  deadline,
		FileName:  fileHeader.Filename,
		Content:   fileBytes,
	})
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("class_id", classID).Msg("Upload failed")
			message = "Failed to upload file"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusCreated, h.translator.T(locale, "file.uploaded"), models.UploadFileResponse{
		FileID:     uploaded.ID,
		Name:       uploaded.Name,
		FileSize:   uploaded.FileSize,
		Hash:       uploaded.Hash,
		MimeType:   uploaded.MimeType,
		FileType:   uploaded.FileType,
		ClassID:    uploaded.ClassID,
		Deadline:   uploaded.Deadline,
		UploadedAt: uploaded.CreatedAt,
	})
}

func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	classID := chi.URLParam(r, "class_id")

	files, err := h.uploadService.ListMaterials(r.Context(), user, classID)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("class_id", classID).Msg("Failed to list materials")
			message = "Failed to list materials"
		}
		writeError(w, status, message)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}

func (h *Handler) GetFileInfo(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	fileID := chi.URLParam(r, "file_id")

	file, err := h.uploadService.GetFile(r.Context(), user, fileID)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("file_id", fileID).Msg("Failed to get file")
			message = "Failed to get file"
		}
		writeError(w, status, message)
		return
	}

	writeSuccess(w, file)
}

func (h *Handler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	fileID := chi.URLParam(r, "file_id")

	url, err := h.uploadService.FileURL(r.Context(), user, fileID, 15*time.Minute)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("file_id", fileID).Msg("Failed to generate file URL")
			message = "Failed to generate file URL"
		}
		writeError(w, status, message)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"file_id":    fileID,
		"url":        url,
		"expires_in": int((15 * time.Minute).Seconds()),
	})
}

func (h *Handler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	fileID := chi.URLParam(r, "file_id")
	locale := localeFromContext(r.Context())

	var req models.UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.translator.Validate().Struct(req); err != nil {
		writeValidationError(w, h.translator.TranslateValidation(locale, err))
		return
	}

	file, err := h.uploadService.UpdateFile(r.Context(), user.ID, fileID, req)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("file_id", fileID).Msg("File update failed")
			message = "Failed to update file"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusOK, h.translator.T(locale, "file.updated"), file)
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	fileID := chi.URLParam(r, "file_id")
	locale := localeFromContext(r.Context())

	if err := h.uploadService.DeleteFile(r.Context(), user.ID, fileID); err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("file_id", fileID).Msg("File deletion failed")
			message = "Failed to delete file"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusOK, h.translator.T(locale, "file.deleted"), map[string]interface{}{
		"file_id": fileID,
	})
}
