// Package accesslog records site-gate attempts and serves them to admins.
package accesslog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mssola/useragent"
	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type store interface {
	RecordAccess(ctx context.Context, params sqlcgen.InsertSiteAccessLogParams) error
	AccessLogs(ctx context.Context, filter sqlcgen.SiteAccessLogFilter, limit, offset int32) ([]sqlcgen.SiteAccessLog, int64, error)
}

// DeviceInfo is the parsed form of a User-Agent header.
type DeviceInfo struct {
	Browser  Browser `json:"browser"`
	OS       string  `json:"os,omitempty"`
	Platform string  `json:"platform,omitempty"`
	Mobile   bool    `json:"mobile"`
	Bot      bool    `json:"bot"`
}

type Browser struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// ParseDevice returns nil for an empty header.
func ParseDevice(userAgent string) *DeviceInfo {
	if userAgent == "" {
		return nil
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	return &DeviceInfo{
		Browser:  Browser{Name: name, Version: version},
		OS:       ua.OS(),
		Platform: ua.Platform(),
		Mobile:   ua.Mobile(),
		Bot:      ua.Bot(),
	}
}

// Service writes and pages through the site access log.
type Service struct {
	store  store
	logger zerolog.Logger
}

func NewService(store store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger.With().Str("component", "access_log").Logger()}
}

// Record stores one attempt. Location is left empty; no geo lookup is configured.
func (s *Service) Record(ctx context.Context, ip, userAgent string, success bool) error {
	params := sqlcgen.InsertSiteAccessLogParams{
		IpAddress: ip,
		Success:   success,
	}
	if userAgent != "" {
		params.UserAgent = pgtype.Text{String: userAgent, Valid: true}
		raw, err := json.Marshal(ParseDevice(userAgent))
		if err != nil {
			return err
		}
		params.DeviceInfo = raw
	}
	return s.store.RecordAccess(ctx, params)
}

// Query filters the log. Zero values mean "no filter".
type Query struct {
	Page     int
	Limit    int
	Success  *bool
	IP       string
	DateFrom *time.Time
	DateTo   *time.Time
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Entry is one log row as served to admins.
type Entry struct {
	ID         int64           `json:"id"`
	IPAddress  string          `json:"ip_address"`
	UserAgent  *string         `json:"user_agent"`
	DeviceInfo json.RawMessage `json:"device_info"`
	Location   json.RawMessage `json:"location"`
	Success    bool            `json:"success"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Page struct {
	Logs  []Entry `json:"logs"`
	Total int64   `json:"total"`
}

// List returns one page, newest first.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	var filter sqlcgen.SiteAccessLogFilter
	if q.Success != nil {
		filter.Success = pgtype.Bool{Bool: *q.Success, Valid: true}
	}
	if q.IP != "" {
		filter.IpAddress = pgtype.Text{String: q.IP, Valid: true}
	}
	if q.DateFrom != nil {
		filter.DateFrom = pgtype.Timestamptz{Time: *q.DateFrom, Valid: true}
	}
	if q.DateTo != nil {
		filter.DateTo = pgtype.Timestamptz{Time: *q.DateTo, Valid: true}
	}

	rows, total, err := s.store.AccessLogs(ctx, filter, int32(q.Limit), int32((q.Page-1)*q.Limit))
	if err != nil {
		return Page{}, err
	}
	out := Page{Logs: make([]Entry, 0, len(rows)), Total: total}
	for _, row := range rows {
		e := Entry{
			ID:         row.ID,
			IPAddress:  row.IpAddress,
			DeviceInfo: nullableJSON(row.DeviceInfo),
			Location:   nullableJSON(row.Location),
			Success:    row.Success,
			CreatedAt:  row.CreatedAt.Time,
		}
		if row.UserAgent.Valid {
			ua := row.UserAgent.String
			e.UserAgent = &ua
		}
		out.Logs = append(out.Logs, e)
	}
	return out, nil
}

func nullableJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}
