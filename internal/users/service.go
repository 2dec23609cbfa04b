// Package users administers named accounts and their draw history.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/impromptu-bank/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
	"github.com/gokatarajesh/impromptu-bank/internal/question"
)

var ErrNotFound = errors.New("user not found")

const (
	DefaultActivityLimit = 50
)

type store interface {
	GetByID(ctx context.Context, id int64) (sqlcgen.User, error)
	ListWithActivity(ctx context.Context) ([]sqlcgen.UserWithActivity, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	Delete(ctx context.Context, id int64) error
	RecordActivity(ctx context.Context, params sqlcgen.InsertUserActivityParams) error
	Activity(ctx context.Context, userID int64, limit, offset int32) ([]sqlcgen.UserActivity, int64, error)
}

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Approved  bool      `json:"approved"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type Summary struct {
	User
	ActivityCount int64      `json:"activity_count"`
	LastActive    *time.Time `json:"last_active"`
}

type Activity struct {
	ID           int64     `json:"id"`
	QuestionType string    `json:"question_type"`
	QuestionID   *int64    `json:"question_id"`
	TemplateID   *int64    `json:"template_id"`
	VariableUsed *string   `json:"variable_used"`
	Level        string    `json:"level"`
	QuestionText *string   `json:"question_text"`
	CreatedAt    time.Time `json:"created_at"`
}

type Detail struct {
	User       User       `json:"user"`
	Activities []Activity `json:"activities"`
	Total      int64      `json:"total"`
}

type Service struct {
	store store
}

func NewService(store store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.store.ListWithActivity(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		sum := Summary{
			User: User{
				ID:        r.ID,
				Username:  r.Username,
				Approved:  r.Approved,
				IsAdmin:   r.IsAdmin,
				CreatedAt: r.CreatedAt.Time,
			},
			ActivityCount: r.ActivityCount,
		}
		if r.LastActive.Valid {
			t := r.LastActive.Time
			sum.LastActive = &t
		}
		out = append(out, sum)
	}
	return out, nil
}

// Get returns the user and one page of their activity, newest first.
// page counts from 1.
func (s *Service) Get(ctx context.Context, id int64, page int) (Detail, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Detail{}, mapNotFound(err)
	}
	if page < 1 {
		page = 1
	}
	rows, total, err := s.store.Activity(ctx, id, DefaultActivityLimit, int32((page-1)*DefaultActivityLimit))
	if err != nil {
		return Detail{}, err
	}

	d := Detail{
		User: User{
			ID:        u.ID,
			Username:  u.Username,
			Approved:  u.Approved,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt.Time,
		},
		Activities: make([]Activity, 0, len(rows)),
		Total:      total,
	}
	for _, r := range rows {
		d.Activities = append(d.Activities, Activity{
			ID:           r.ID,
			QuestionType: r.QuestionType,
			QuestionID:   int8Ptr(r.QuestionID),
			TemplateID:   int8Ptr(r.TemplateID),
			VariableUsed: textPtr(r.VariableUsed),
			Level:        r.Level,
			QuestionText: textPtr(r.QuestionText),
			CreatedAt:    r.CreatedAt.Time,
		})
	}
	return d, nil
}

func (s *Service) SetApproved(ctx context.Context, id int64, approved bool) error {
	return mapNotFound(s.store.SetApproved(ctx, id, approved))
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return mapNotFound(s.store.Delete(ctx, id))
}

// RecordDraw appends a draw to the user's activity log.
func (s *Service) RecordDraw(ctx context.Context, userID int64, d question.Draw) error {
	params := sqlcgen.InsertUserActivityParams{
		UserID:       userID,
		QuestionType: d.Type,
		Level:        string(d.Level),
	}
	if d.TemplateID != nil {
		params.TemplateID = pgtype.Int8{Int64: *d.TemplateID, Valid: true}
		params.VariableUsed = pgtype.Text{String: d.VariableUsed, Valid: true}
	} else {
		params.QuestionID = pgtype.Int8{Int64: d.ID, Valid: true}
	}
	return s.store.RecordActivity(ctx, params)
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
