package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type questionStore interface {
	ListQuestionsByLevel(ctx context.Context, level string) ([]sqlcgen.Question, error)
	ListQuestionsWithFeedback(ctx context.Context, level pgtype.Text) ([]sqlcgen.QuestionWithFeedback, error)
	CountQuestionsByLevel(ctx context.Context) ([]sqlcgen.LevelCount, error)
	CreateQuestion(ctx context.Context, arg sqlcgen.CreateQuestionParams) (sqlcgen.Question, error)
	UpdateQuestion(ctx context.Context, arg sqlcgen.UpdateQuestionParams) (sqlcgen.Question, error)
	DeleteQuestion(ctx context.Context, id int64) (int64, error)
	BulkUpdateQuestionLevel(ctx context.Context, arg sqlcgen.BulkUpdateQuestionLevelParams) (int64, error)
	BulkDeleteQuestions(ctx context.Context, ids []int64) (int64, error)
}

// QuestionRepository wraps queries for flat question access.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// ListByLevel returns every question currently stored for a level.
func (r *QuestionRepository) ListByLevel(ctx context.Context, level string) ([]sqlcgen.Question, error) {
	return r.store.ListQuestionsByLevel(ctx, level)
}

// ListWithFeedback returns questions with vote totals; an empty level lists all.
func (r *QuestionRepository) ListWithFeedback(ctx context.Context, level string) ([]sqlcgen.QuestionWithFeedback, error) {
	return r.store.ListQuestionsWithFeedback(ctx, optionalText(level))
}

func (r *QuestionRepository) CountByLevel(ctx context.Context) ([]sqlcgen.LevelCount, error) {
	return r.store.CountQuestionsByLevel(ctx)
}

func (r *QuestionRepository) Create(ctx context.Context, params sqlcgen.CreateQuestionParams) (sqlcgen.Question, error) {
	return r.store.CreateQuestion(ctx, params)
}

// Update rewrites level and text; the id is stable so history rows stay attached.
func (r *QuestionRepository) Update(ctx context.Context, params sqlcgen.UpdateQuestionParams) (sqlcgen.Question, error) {
	q, err := r.store.UpdateQuestion(ctx, params)
	return q, translate(err)
}

// Delete removes a question; history and feedback rows cascade.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.store.DeleteQuestion(ctx, id))
}

func (r *QuestionRepository) BulkUpdateLevel(ctx context.Context, ids []int64, level string) (int64, error) {
	return r.store.BulkUpdateQuestionLevel(ctx, sqlcgen.BulkUpdateQuestionLevelParams{Level: level, IDs: ids})
}

func (r *QuestionRepository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return r.store.BulkDeleteQuestions(ctx, ids)
}

func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
