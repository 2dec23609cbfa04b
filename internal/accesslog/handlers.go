package accesslog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
)

type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger}
}

// List handles GET /api/logs?page&limit&success&ip&dateFrom&dateTo
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
		return
	}
	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.logger.Error().Err(err).Msg("list access logs failed")
		httperrors.RespondInternalError(w, "Failed to fetch logs")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}

type queryError string

func (e queryError) Error() string { return string(e) }

func parseQuery(r *http.Request) (Query, error) {
	v := r.URL.Query()
	q := Query{IP: v.Get("ip")}

	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Query{}, queryError("page must be an integer")
		}
		q.Page = n
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Query{}, queryError("limit must be an integer")
		}
		q.Limit = n
	}
	if s := v.Get("success"); s != "" {
		b := s == "true"
		q.Success = &b
	}
	if s := v.Get("dateFrom"); s != "" {
		t, err := parseDate(s, false)
		if err != nil {
			return Query{}, queryError("dateFrom must be RFC 3339 or YYYY-MM-DD")
		}
		q.DateFrom = &t
	}
	if s := v.Get("dateTo"); s != "" {
		t, err := parseDate(s, true)
		if err != nil {
			return Query{}, queryError("dateTo must be RFC 3339 or YYYY-MM-DD")
		}
		q.DateTo = &t
	}
	return q, nil
}

// parseDate accepts a full timestamp or a bare day. A bare dateTo day covers
// the whole day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
