package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertNumberInput = `
INSERT INTO number_inputs (number, level, ip_address) VALUES ($1, $2, $3)
`

type InsertNumberInputParams struct {
	Number    int64       `json:"number"`
	Level     string      `json:"level"`
	IpAddress pgtype.Text `json:"ip_address"`
}

func (q *Queries) InsertNumberInput(ctx context.Context, arg InsertNumberInputParams) error {
	_, err := q.db.Exec(ctx, insertNumberInput, arg.Number, arg.Level, arg.IpAddress)
	return err
}

const listNumberInputs = `
SELECT id, number, level, ip_address, created_at FROM number_inputs
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListNumberInputs(ctx context.Context) ([]NumberInput, error) {
	rows, err := q.db.Query(ctx, listNumberInputs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NumberInput
	for rows.Next() {
		var i NumberInput
		if err := rows.Scan(
			&i.ID,
			&i.Number,
			&i.Level,
			&i.IpAddress,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertSiteAccessLog = `
INSERT INTO site_access_logs (ip_address, user_agent, device_info, location, success)
VALUES ($1, $2, $3, $4, $5)
`

type InsertSiteAccessLogParams struct {
	IpAddress  string      `json:"ip_address"`
	UserAgent  pgtype.Text `json:"user_agent"`
	DeviceInfo []byte      `json:"device_info"`
	Location   []byte      `json:"location"`
	Success    bool        `json:"success"`
}

func (q *Queries) InsertSiteAccessLog(ctx context.Context, arg InsertSiteAccessLogParams) error {
	_, err := q.db.Exec(ctx, insertSiteAccessLog,
		arg.IpAddress,
		arg.UserAgent,
		arg.DeviceInfo,
		arg.Location,
		arg.Success,
	)
	return err
}

const siteAccessLogFilter = `
WHERE ($1::boolean IS NULL OR success = $1::boolean)
  AND ($2::text IS NULL OR ip_address = $2::text)
  AND ($3::timestamptz IS NULL OR created_at >= $3::timestamptz)
  AND ($4::timestamptz IS NULL OR created_at <= $4::timestamptz)
`

const countSiteAccessLogs = `
SELECT COUNT(*)::bigint FROM site_access_logs
` + siteAccessLogFilter

type SiteAccessLogFilter struct {
	Success   pgtype.Bool        `json:"success"`
	IpAddress pgtype.Text        `json:"ip_address"`
	DateFrom  pgtype.Timestamptz `json:"date_from"`
	DateTo    pgtype.Timestamptz `json:"date_to"`
}

func (q *Queries) CountSiteAccessLogs(ctx context.Context, arg SiteAccessLogFilter) (int64, error) {
	row := q.db.QueryRow(ctx, countSiteAccessLogs,
		arg.Success,
		arg.IpAddress,
		arg.DateFrom,
		arg.DateTo,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listSiteAccessLogs = `
SELECT id, ip_address, user_agent, device_info, location, success, created_at
FROM site_access_logs
` + siteAccessLogFilter + `
ORDER BY created_at DESC, id DESC
LIMIT $5 OFFSET $6
`

type ListSiteAccessLogsParams struct {
	SiteAccessLogFilter
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListSiteAccessLogs(ctx context.Context, arg ListSiteAccessLogsParams) ([]SiteAccessLog, error) {
	rows, err := q.db.Query(ctx, listSiteAccessLogs,
		arg.Success,
		arg.IpAddress,
		arg.DateFrom,
		arg.DateTo,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SiteAccessLog
	for rows.Next() {
		var i SiteAccessLog
		if err := rows.Scan(
			&i.ID,
			&i.IpAddress,
			&i.UserAgent,
			&i.DeviceInfo,
			&i.Location,
			&i.Success,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
