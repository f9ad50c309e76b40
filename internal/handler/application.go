package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trackr/trackr/internal/auth"
	"github.com/trackr/trackr/internal/handler/dto"
	"github.com/trackr/trackr/internal/service"
)

// ApplicationHandler handles application-record endpoints.
type ApplicationHandler struct {
	service *service.ApplicationService
	logger  *slog.Logger
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(svc *service.ApplicationService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		service: svc,
		logger:  logger,
	}
}

// List returns all records belonging to one user, as a bare array.
// GET /api/applications?uid=<uuid>
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if _, err := uuid.Parse(uid); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "uid must be a valid UUID")
		return
	}

	apps, err := h.service.List(r.Context(), uid)
	if err != nil {
		h.logger.Error("failed to list applications", "uid", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// DashStats aggregates one user's records into dashboard figures.
// GET /api/dash-stats?uid=<uuid>
func (h *ApplicationHandler) DashStats(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if _, err := uuid.Parse(uid); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "uid must be a valid UUID")
		return
	}

	summary, err := h.service.DashboardStats(r.Context(), uid, time.Now().UTC())
	if err != nil {
		h.logger.Error("failed to build dashboard stats", "uid", uid, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Create inserts a new record.
// POST /api/applications
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateApplicationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	inserted, err := h.service.Create(r.Context(), req.ToModel())
	if err != nil {
		h.logger.Error("failed to create application", "uid", req.UID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ApplicationsResponse{
		Data:    inserted,
		Message: "Application added successfully",
	})
}

// Update overwrites the record with the path id. The caller must own it.
// PUT /api/applications/{id}
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	requester := auth.UserIDFromContext(r.Context())
	if requester == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.UpdateApplicationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), requester, id, req.ToModel())
	if err != nil {
		h.writeServiceError(w, "update", id, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ApplicationsResponse{
		Data:    updated,
		Message: "Application updated successfully",
	})
}

// Delete removes the record with the path id. The caller must own it.
// DELETE /api/applications/{id}
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a valid UUID")
		return
	}

	requester := auth.UserIDFromContext(r.Context())
	if requester == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	deleted, err := h.service.Delete(r.Context(), requester, id)
	if err != nil {
		h.writeServiceError(w, "delete", id, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ApplicationsResponse{
		Data:    deleted,
		Message: "Application deleted successfully",
	})
}

func (h *ApplicationHandler) writeServiceError(w http.ResponseWriter, op, id string, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		h.logger.Error("failed to "+op+" application", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
