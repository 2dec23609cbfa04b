package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
	"github.com/gokatarajesh/impromptu-bank/pkg/http/request"
)

// HTTPHandlers exposes the settings endpoints.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

// Get handles GET /api/settings
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.View(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("read settings failed")
		httperrors.RespondInternalError(w, "Failed to read settings")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update handles PUT /api/settings
func (h *HTTPHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req Update
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Apply(r.Context(), req); err != nil {
		h.respondApplyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Public handles GET /api/settings/public
func (h *HTTPHandlers) Public(w http.ResponseWriter, r *http.Request) {
	maxNumber, err := h.svc.MaxNumber(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("read max number failed")
		httperrors.RespondInternalError(w, "Failed to read settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"max_number": maxNumber})
}

type whitelistPayload struct {
	Whitelist *[]string `json:"whitelist"`
	Enabled   *bool     `json:"enabled"`
}

// GetWhitelist handles GET /api/settings/ip-whitelist
func (h *HTTPHandlers) GetWhitelist(w http.ResponseWriter, r *http.Request) {
	ips, err := h.svc.IPWhitelist(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("read ip whitelist failed")
		httperrors.RespondInternalError(w, "Failed to fetch IP whitelist")
		return
	}
	enabled, err := h.svc.WhitelistEnabled(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("read ip whitelist flag failed")
		httperrors.RespondInternalError(w, "Failed to fetch IP whitelist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"whitelist": ips,
		"enabled":   enabled,
	})
}

// UpdateWhitelist handles POST /api/settings/ip-whitelist
func (h *HTTPHandlers) UpdateWhitelist(w http.ResponseWriter, r *http.Request) {
	var req whitelistPayload
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	err := h.svc.Apply(r.Context(), Update{IPWhitelist: req.Whitelist, IPWhitelistEnabled: req.Enabled})
	if err != nil {
		h.respondApplyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HTTPHandlers) respondApplyError(w http.ResponseWriter, err error) {
	var ipErr *InvalidIPError
	switch {
	case errors.Is(err, ErrLockOutOfRange), errors.Is(err, ErrMaxNumberOutOfRange), errors.Is(err, ErrEmptyPassword):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	case errors.As(err, &ipErr):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	default:
		h.logger.Error().Err(err).Msg("update settings failed")
		httperrors.RespondInternalError(w, "Failed to update settings")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
