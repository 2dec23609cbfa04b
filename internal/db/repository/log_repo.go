package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type logStore interface {
	InsertNumberInput(ctx context.Context, arg sqlcgen.InsertNumberInputParams) error
	ListNumberInputs(ctx context.Context) ([]sqlcgen.NumberInput, error)
	InsertSiteAccessLog(ctx context.Context, arg sqlcgen.InsertSiteAccessLogParams) error
	CountSiteAccessLogs(ctx context.Context, arg sqlcgen.SiteAccessLogFilter) (int64, error)
	ListSiteAccessLogs(ctx context.Context, arg sqlcgen.ListSiteAccessLogsParams) ([]sqlcgen.SiteAccessLog, error)
}

// LogRepository persists the append-only audit tables: lucky numbers and
// site access attempts.
type LogRepository struct {
	store logStore
}

func NewLogRepository(store logStore) *LogRepository {
	return &LogRepository{store: store}
}

func (r *LogRepository) RecordNumber(ctx context.Context, params sqlcgen.InsertNumberInputParams) error {
	return r.store.InsertNumberInput(ctx, params)
}

func (r *LogRepository) Numbers(ctx context.Context) ([]sqlcgen.NumberInput, error) {
	return r.store.ListNumberInputs(ctx)
}

func (r *LogRepository) RecordAccess(ctx context.Context, params sqlcgen.InsertSiteAccessLogParams) error {
	return r.store.InsertSiteAccessLog(ctx, params)
}

// AccessLogs returns one page of matching rows and the total match count.
func (r *LogRepository) AccessLogs(ctx context.Context, filter sqlcgen.SiteAccessLogFilter, limit, offset int32) ([]sqlcgen.SiteAccessLog, int64, error) {
	total, err := r.store.CountSiteAccessLogs(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.store.ListSiteAccessLogs(ctx, sqlcgen.ListSiteAccessLogsParams{
		SiteAccessLogFilter: filter,
		Limit:               limit,
		Offset:              offset,
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
