package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	locale := localeFromContext(r.Context())
	if err := h.translator.Validate().Struct(req); err != nil {
		writeValidationError(w, h.translator.TranslateValidation(locale, err))
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("Registration failed")
			message = "Failed to register user"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusCreated, h.translator.T(locale, "welcome"), user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	locale := localeFromContext(r.Context())
	if err := h.translator.Validate().Struct(req); err != nil {
		writeValidationError(w, h.translator.TranslateValidation(locale, err))
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("Login failed")
			message = "Failed to log in"
		}
		writeError(w, status, message)
		return
	}

	writeSuccess(w, resp)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	writeSuccess(w, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	locale := localeFromContext(r.Context())
	if err := h.translator.Validate().Struct(req); err != nil {
		writeValidationError(w, h.translator.TranslateValidation(locale, err))
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		status, message := mapServiceError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("user_id", user.ID).Msg("Profile update failed")
			message = "Failed to update profile"
		}
		writeError(w, status, message)
		return
	}

	writeSuccessMessage(w, http.StatusOK, h.translator.T(locale, "profile.updated"), updated)
}
