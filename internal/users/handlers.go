package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
	"github.com/gokatarajesh/impromptu-bank/pkg/http/request"
)

type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger.With().Str("component", "users_http").Logger()}
}

// List handles GET /api/users
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list users failed")
		httperrors.RespondInternalError(w, "Failed to fetch users")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/users/{id}?page=
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	detail, err := h.svc.Get(r.Context(), id, page)
	if err != nil {
		h.respondError(w, err, "get user failed")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type updateRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// Update handles PUT /api/users/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.SetApproved(r.Context(), id, *req.Approved); err != nil {
		h.respondError(w, err, "update user failed")
		return
	}
	h.logger.Info().Int64("user_id", id).Bool("approved", *req.Approved).Msg("user approval changed")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete handles DELETE /api/users/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "delete user failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, ErrNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "User not found")
		return
	}
	h.logger.Error().Err(err).Msg(msg)
	httperrors.RespondInternalError(w, "Failed to process user request")
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidID, "Invalid user ID")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
