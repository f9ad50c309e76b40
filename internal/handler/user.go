package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trackr/trackr/internal/handler/dto"
	"github.com/trackr/trackr/internal/model"
	"github.com/trackr/trackr/internal/service"
)

// UserHandler handles authentication and account endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  logger,
	}
}

// Login exchanges credentials for a session token.
// POST /api/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Message: "Login successful.",
		User:    result.User,
		Token:   result.Token,
	})
}

// Signup registers a new account.
// POST /api/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("signup failed", "email", req.Email, "error", err)
		writeError(w, http.StatusBadRequest, "SIGNUP_FAILED", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Message: "Signup successful.",
		User:    result.User,
		Token:   result.Token,
	})
}

// UpdateProfile overwrites the metadata of one account.
// PUT /api/user/{id}
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	var req dto.UserProfileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, model.UserProfile{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Email:      req.Email,
		Occupation: req.Occupation,
		Location:   req.Location,
	})
	if err != nil {
		h.logger.Error("failed to update user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Message: "User updated successfully",
		User:    user,
	})
}

// DeleteUser removes an account and every record it owns.
// DELETE /api/user/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.logger.Error("failed to delete user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "User deleted successfully",
	})
}

// ChangePassword rotates an account password after checking the current one.
// PUT /api/change-password/{id}
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	var req dto.PasswordChangeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	err := h.service.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, dto.MessageResponse{
			Message: "Password updated successfully",
		})
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, service.ErrSamePassword):
		writeError(w, http.StatusBadRequest, "SAME_PASSWORD", err.Error())
	default:
		h.logger.Error("failed to change password", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
