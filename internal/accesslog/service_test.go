package accesslog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type fakeStore struct {
	inserted []sqlcgen.InsertSiteAccessLogParams
	rows     []sqlcgen.SiteAccessLog
	total    int64

	gotFilter sqlcgen.SiteAccessLogFilter
	gotLimit  int32
	gotOffset int32
}

func (f *fakeStore) RecordAccess(_ context.Context, params sqlcgen.InsertSiteAccessLogParams) error {
	f.inserted = append(f.inserted, params)
	return nil
}

func (f *fakeStore) AccessLogs(_ context.Context, filter sqlcgen.SiteAccessLogFilter, limit, offset int32) ([]sqlcgen.SiteAccessLog, int64, error) {
	f.gotFilter, f.gotLimit, f.gotOffset = filter, limit, offset
	return f.rows, f.total, nil
}

const chromeOnMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestService_RecordParsesDevice(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, zerolog.Nop())

	require.NoError(t, svc.Record(context.Background(), "1.2.3.4", chromeOnMac, true))

	require.Len(t, store.inserted, 1)
	got := store.inserted[0]
	assert.Equal(t, "1.2.3.4", got.IpAddress)
	assert.True(t, got.Success)
	assert.Equal(t, chromeOnMac, got.UserAgent.String)
	assert.Nil(t, got.Location)

	var info DeviceInfo
	require.NoError(t, json.Unmarshal(got.DeviceInfo, &info))
	assert.Equal(t, "Chrome", info.Browser.Name)
	assert.False(t, info.Mobile)
}

func TestService_RecordWithoutUserAgent(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, zerolog.Nop())

	require.NoError(t, svc.Record(context.Background(), "unknown", "", false))

	got := store.inserted[0]
	assert.False(t, got.UserAgent.Valid)
	assert.Nil(t, got.DeviceInfo)
}

func TestService_ListPaging(t *testing.T) {
	store := &fakeStore{
		rows: []sqlcgen.SiteAccessLog{{
			ID:        9,
			IpAddress: "1.2.3.4",
			Success:   true,
			CreatedAt: pgtype.Timestamptz{Time: time.Unix(0, 0), Valid: true},
		}},
		total: 120,
	}
	svc := NewService(store, zerolog.Nop())
	ok := false

	page, err := svc.List(context.Background(), Query{Page: 3, Success: &ok, IP: "1.2.3.4"})

	require.NoError(t, err)
	assert.Equal(t, int32(50), store.gotLimit)
	assert.Equal(t, int32(100), store.gotOffset)
	assert.Equal(t, pgtype.Bool{Bool: false, Valid: true}, store.gotFilter.Success)
	assert.Equal(t, "1.2.3.4", store.gotFilter.IpAddress.String)
	assert.False(t, store.gotFilter.DateFrom.Valid)
	assert.Equal(t, int64(120), page.Total)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, json.RawMessage("null"), page.Logs[0].DeviceInfo)
	assert.Nil(t, page.Logs[0].UserAgent)
}

func TestHTTPHandler_ListParsesFilters(t *testing.T) {
	store := &fakeStore{}
	h := NewHTTPHandler(NewService(store, zerolog.Nop()), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/logs?page=2&limit=10&success=true&dateFrom=2026-01-01&dateTo=2026-01-31", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(10), store.gotLimit)
	assert.Equal(t, int32(10), store.gotOffset)
	assert.True(t, store.gotFilter.Success.Bool)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), store.gotFilter.DateFrom.Time)
	assert.Equal(t, time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC), store.gotFilter.DateTo.Time)

	var body Page
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotNil(t, body.Logs)
}

func TestHTTPHandler_RejectsBadDate(t *testing.T) {
	h := NewHTTPHandler(NewService(&fakeStore{}, zerolog.Nop()), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/logs?dateFrom=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
