package feedback

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
	"github.com/gokatarajesh/impromptu-bank/pkg/http/request"
)

type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

// Submit handles POST /api/feedback
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !request.DecodeJSON(w, r, &in) {
		return
	}

	err := h.svc.Submit(r.Context(), in)
	switch {
	case errors.Is(err, ErrInvalidVote):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, `Vote must be "up" or "down"`, "vote")
		return
	case errors.Is(err, ErrMissingTarget):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Either questionId or templateId is required")
		return
	case errors.Is(err, ErrUnknownTarget):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Question or template not found")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("store feedback failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeFeedbackFailed, "Failed to save feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Templates handles GET /api/feedback/templates
func (h *HTTPHandler) Templates(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.TemplateSummary(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("template feedback summary failed")
		httperrors.RespondInternalError(w, "Failed to fetch feedback")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
