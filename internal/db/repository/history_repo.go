package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type historyStore interface {
	InsertQuestionHistory(ctx context.Context, arg sqlcgen.InsertQuestionHistoryParams) error
	InsertTemplateHistory(ctx context.Context, arg sqlcgen.InsertTemplateHistoryParams) error
	ListQuestionIDsShownSince(ctx context.Context, cutoff pgtype.Timestamptz) ([]int64, error)
	ListTemplatePairsShownSince(ctx context.Context, cutoff pgtype.Timestamptz) ([]sqlcgen.TemplateHistoryKey, error)
	DeleteAllQuestionHistory(ctx context.Context) (int64, error)
	DeleteAllTemplateHistory(ctx context.Context) (int64, error)
	DeleteQuestionHistoryBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error)
	DeleteTemplateHistoryBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error)
}

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// HistoryRepository records which content was shown and when.
type HistoryRepository struct {
	store historyStore
	tx    TxBeginner
}

// NewHistoryRepository wraps the history queries. When tx is nil, ResetPool
// issues its two deletes without a surrounding transaction.
func NewHistoryRepository(store historyStore, tx TxBeginner) *HistoryRepository {
	return &HistoryRepository{store: store, tx: tx}
}

func (r *HistoryRepository) RecordQuestion(ctx context.Context, questionID int64, at time.Time) error {
	return r.store.InsertQuestionHistory(ctx, sqlcgen.InsertQuestionHistoryParams{
		QuestionID: questionID,
		ShownAt:    timestamptz(at),
	})
}

func (r *HistoryRepository) RecordTemplate(ctx context.Context, templateID int64, variable string, at time.Time) error {
	return r.store.InsertTemplateHistory(ctx, sqlcgen.InsertTemplateHistoryParams{
		TemplateID:   templateID,
		VariableUsed: variable,
		ShownAt:      timestamptz(at),
	})
}

// QuestionsShownSince returns the set of question ids shown strictly after cutoff.
func (r *HistoryRepository) QuestionsShownSince(ctx context.Context, cutoff time.Time) (map[int64]struct{}, error) {
	ids, err := r.store.ListQuestionIDsShownSince(ctx, timestamptz(cutoff))
	if err != nil {
		return nil, err
	}
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// TemplatePairsShownSince returns the (template, variable) pairs shown strictly after cutoff.
func (r *HistoryRepository) TemplatePairsShownSince(ctx context.Context, cutoff time.Time) (map[sqlcgen.TemplateHistoryKey]struct{}, error) {
	pairs, err := r.store.ListTemplatePairsShownSince(ctx, timestamptz(cutoff))
	if err != nil {
		return nil, err
	}
	out := make(map[sqlcgen.TemplateHistoryKey]struct{}, len(pairs))
	for _, p := range pairs {
		out[p] = struct{}{}
	}
	return out, nil
}

// ResetPool deletes every history record of both kinds.
func (r *HistoryRepository) ResetPool(ctx context.Context) error {
	if r.tx == nil {
		return resetHistory(ctx, r.store)
	}

	tx, err := r.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := resetHistory(ctx, sqlcgen.New(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CleanupBefore drops history rows older than cutoff and reports how many went.
func (r *HistoryRepository) CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ts := timestamptz(cutoff)
	questions, err := r.store.DeleteQuestionHistoryBefore(ctx, ts)
	if err != nil {
		return 0, fmt.Errorf("cleanup question history: %w", err)
	}
	templates, err := r.store.DeleteTemplateHistoryBefore(ctx, ts)
	if err != nil {
		return questions, fmt.Errorf("cleanup template history: %w", err)
	}
	return questions + templates, nil
}

func resetHistory(ctx context.Context, store historyStore) error {
	if _, err := store.DeleteAllQuestionHistory(ctx); err != nil {
		return fmt.Errorf("reset question history: %w", err)
	}
	if _, err := store.DeleteAllTemplateHistory(ctx); err != nil {
		return fmt.Errorf("reset template history: %w", err)
	}
	return nil
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
