// Package stats tracks the lucky numbers entered on the public page.
package stats

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type store interface {
	RecordNumber(ctx context.Context, params sqlcgen.InsertNumberInputParams) error
	Numbers(ctx context.Context) ([]sqlcgen.NumberInput, error)
}

type Service struct {
	store store
}

func NewService(store store) *Service {
	return &Service{store: store}
}

// RecordNumber stores one lucky-number entry. ip may be empty.
func (s *Service) RecordNumber(ctx context.Context, number int64, level, ip string) error {
	params := sqlcgen.InsertNumberInputParams{Number: number, Level: level}
	if ip != "" {
		params.IpAddress = pgtype.Text{String: ip, Valid: true}
	}
	return s.store.RecordNumber(ctx, params)
}

type DigitCount struct {
	Digit int   `json:"digit"`
	Count int64 `json:"count"`
}

type NumberEntry struct {
	ID        int64     `json:"id"`
	Number    int64     `json:"number"`
	Level     string    `json:"level"`
	IPAddress *string   `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

type LuckyNumbers struct {
	TopDigits  []DigitCount  `json:"topDigits"`
	TotalCount int           `json:"totalCount"`
	AllNumbers []NumberEntry `json:"allNumbers"`
}

const topDigitLimit = 10

// LuckyNumbers counts every decimal digit of every entry. Digits are ranked
// by count, ties by the smaller digit.
func (s *Service) LuckyNumbers(ctx context.Context) (LuckyNumbers, error) {
	rows, err := s.store.Numbers(ctx)
	if err != nil {
		return LuckyNumbers{}, err
	}

	var counts [10]int64
	entries := make([]NumberEntry, 0, len(rows))
	for _, row := range rows {
		for _, c := range strconv.FormatInt(row.Number, 10) {
			if c >= '0' && c <= '9' {
				counts[c-'0']++
			}
		}
		e := NumberEntry{
			ID:        row.ID,
			Number:    row.Number,
			Level:     row.Level,
			CreatedAt: row.CreatedAt.Time,
		}
		if row.IpAddress.Valid {
			ip := row.IpAddress.String
			e.IPAddress = &ip
		}
		entries = append(entries, e)
	}

	top := make([]DigitCount, 0, len(counts))
	for d, n := range counts {
		if n > 0 {
			top = append(top, DigitCount{Digit: d, Count: n})
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > topDigitLimit {
		top = top[:topDigitLimit]
	}

	return LuckyNumbers{TopDigits: top, TotalCount: len(entries), AllNumbers: entries}, nil
}
