package question

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/impromptu-bank/internal/auth"
	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
	"github.com/gokatarajesh/impromptu-bank/pkg/http/request"
)

// Drawer is satisfied by *Selector.
type Drawer interface {
	Draw(ctx context.Context, level Level) (Draw, error)
}

// NumberRecorder stores the lucky number a student typed before drawing.
type NumberRecorder interface {
	RecordNumber(ctx context.Context, number int64, level, ip string) error
}

// ActivityRecorder logs draws made by a signed-in user.
type ActivityRecorder interface {
	RecordDraw(ctx context.Context, userID int64, d Draw) error
}

// HTTPHandler exposes the question bank over HTTP.
type HTTPHandler struct {
	selector Drawer
	svc      *Service
	numbers  NumberRecorder
	activity ActivityRecorder
	logger   zerolog.Logger
}

func NewHTTPHandler(selector Drawer, svc *Service, numbers NumberRecorder, activity ActivityRecorder, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		selector: selector,
		svc:      svc,
		numbers:  numbers,
		activity: activity,
		logger:   logger.With().Str("component", "question_http").Logger(),
	}
}

// Random handles GET /api/questions/random?level=L1[&number=N]
func (h *HTTPHandler) Random(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	level, err := ParseLevel(r.URL.Query().Get("level"))
	if err != nil {
		httperrors.RespondDisplayError(w, http.StatusBadRequest, httperrors.ErrCodeInvalidLevel, "Invalid level. Must be one of: L1, L2, L3, L4, L5")
		return
	}

	if raw := r.URL.Query().Get("number"); raw != "" && h.numbers != nil {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
			if err := h.numbers.RecordNumber(ctx, n, string(level), auth.ClientIP(r)); err != nil {
				h.logger.Warn().Err(err).Msg("record lucky number failed")
			}
		}
	}

	d, err := h.selector.Draw(ctx, level)
	if errors.Is(err, ErrNoContentForLevel) {
		httperrors.RespondDisplayError(w, http.StatusNotFound, httperrors.ErrCodeNotFound, "No questions found for this level")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("level", string(level)).Msg("draw failed")
		httperrors.RespondDisplayError(w, http.StatusInternalServerError, httperrors.ErrCodeDrawFailed, "Failed to fetch question")
		return
	}

	if sess := auth.SessionFromContext(ctx); sess.UserID > 0 && h.activity != nil {
		if err := h.activity.RecordDraw(ctx, sess.UserID, d); err != nil {
			h.logger.Warn().Err(err).Int64("user_id", sess.UserID).Msg("record user activity failed")
		}
	}

	writeJSON(w, http.StatusOK, d.Generated)
}

// Reset handles POST /api/questions/reset
func (h *HTTPHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetPool(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("reset pool failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeResetFailed, "Failed to reset question pool")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Question pool has been reset",
	})
}

// List handles GET /api/questions?level=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), r.URL.Query().Get("level"))
	if err != nil {
		h.respondError(w, err, "list questions failed")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Counts handles GET /api/questions/counts
func (h *HTTPHandler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Counts(r.Context())
	if err != nil {
		h.respondError(w, err, "count questions failed")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

type questionRequest struct {
	Level string `json:"level"`
	Text  string `json:"text" validate:"required,max=2000"`
}

// Create handles POST /api/questions
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.Create(r.Context(), req.Level, req.Text)
	if err != nil {
		h.respondError(w, err, "create question failed")
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// Update handles PUT /api/questions/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req questionRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.Update(r.Context(), id, req.Level, req.Text)
	if err != nil {
		h.respondError(w, err, "update question failed")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Delete handles DELETE /api/questions/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "delete question failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type bulkRequest struct {
	IDs   []int64 `json:"ids" validate:"min=1,dive,gt=0"`
	Level string  `json:"level"`
}

// BulkUpdate handles PUT /api/questions/bulk
func (h *HTTPHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	n, err := h.svc.BulkUpdateLevel(r.Context(), req.IDs, req.Level)
	if err != nil {
		h.respondError(w, err, "bulk update failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "updatedCount": n})
}

// BulkDelete handles DELETE /api/questions/bulk
func (h *HTTPHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	n, err := h.svc.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		h.respondError(w, err, "bulk delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deletedCount": n})
}

// ListTemplates handles GET /api/templates?level=
func (h *HTTPHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListTemplates(r.Context(), r.URL.Query().Get("level"))
	if err != nil {
		h.respondError(w, err, "list templates failed")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateTemplate handles POST /api/templates
func (h *HTTPHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var in TemplateInput
	if !request.DecodeJSON(w, r, &in) {
		return
	}
	t, err := h.svc.CreateTemplate(r.Context(), in)
	if err != nil {
		h.respondError(w, err, "create template failed")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTemplate handles PUT /api/templates/{id}
func (h *HTTPHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in TemplateInput
	if !request.DecodeJSON(w, r, &in) {
		return
	}
	t, err := h.svc.UpdateTemplate(r.Context(), id, in)
	if err != nil {
		h.respondError(w, err, "update template failed")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTemplate handles DELETE /api/templates/{id}
func (h *HTTPHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTemplate(r.Context(), id); err != nil {
		h.respondError(w, err, "delete template failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, ErrInvalidLevel):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidLevel, err.Error(), "level")
	case errors.Is(err, ErrTemplateLevel):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidLevel, err.Error(), "level")
	case errors.Is(err, ErrInvalidTemplate):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "variables")
	case errors.Is(err, ErrEmptyText):
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, err.Error(), "text")
	case errors.Is(err, ErrEmptyIDs):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "ids")
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Not found")
	default:
		h.logger.Error().Err(err).Msg(msg)
		httperrors.RespondInternalError(w, "Internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidID, "Invalid ID")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
