package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type feedbackStore interface {
	InsertFeedback(ctx context.Context, arg sqlcgen.InsertFeedbackParams) error
	ListTemplateFeedbackSummary(ctx context.Context) ([]sqlcgen.TemplateFeedbackSummary, error)
}

// FeedbackRepository stores thumbs up/down votes.
type FeedbackRepository struct {
	store feedbackStore
}

func NewFeedbackRepository(store feedbackStore) *FeedbackRepository {
	return &FeedbackRepository{store: store}
}

func (r *FeedbackRepository) Insert(ctx context.Context, params sqlcgen.InsertFeedbackParams) error {
	return translate(r.store.InsertFeedback(ctx, params))
}

// TemplateSummary aggregates votes per (template, variable) pair.
func (r *FeedbackRepository) TemplateSummary(ctx context.Context) ([]sqlcgen.TemplateFeedbackSummary, error) {
	return r.store.ListTemplateFeedbackSummary(ctx)
}
