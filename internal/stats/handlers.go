package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
)

type HTTPHandler struct {
	svc    *Service
	now    func() time.Time
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, now: time.Now, logger: logger}
}

// LuckyNumbers handles GET /api/stats/lucky-numbers
func (h *HTTPHandler) LuckyNumbers(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.LuckyNumbers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("lucky number stats failed")
		httperrors.RespondInternalError(w, "Failed to fetch statistics")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

// Export handles GET /api/stats/lucky-numbers/export[?format=xlsx]
func (h *HTTPHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, "format must be csv or xlsx")
		return
	}

	stats, err := h.svc.LuckyNumbers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("lucky number export failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeExportFailed, "Failed to export data")
		return
	}

	// Buffer so a write failure can still produce a clean error response.
	var buf bytes.Buffer
	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = WriteXLSX(&buf, stats.AllNumbers)
	} else {
		err = WriteCSV(&buf, stats.AllNumbers)
	}
	if err != nil {
		h.logger.Error().Err(err).Str("format", format).Msg("encode export failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeExportFailed, "Failed to export data")
		return
	}

	filename := fmt.Sprintf("lucky-numbers-%s.%s", h.now().UTC().Format(time.DateOnly), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}
