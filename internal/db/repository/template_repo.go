package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type templateStore interface {
	ListTemplates(ctx context.Context, level pgtype.Text) ([]sqlcgen.QuestionTemplate, error)
	CreateTemplate(ctx context.Context, arg sqlcgen.CreateTemplateParams) (sqlcgen.QuestionTemplate, error)
	UpdateTemplate(ctx context.Context, arg sqlcgen.UpdateTemplateParams) (sqlcgen.QuestionTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) (int64, error)
}

// TemplateRepository wraps queries for parametrized question templates.
type TemplateRepository struct {
	store templateStore
}

func NewTemplateRepository(store templateStore) *TemplateRepository {
	return &TemplateRepository{store: store}
}

// List returns templates for a level, or all templates when level is empty.
func (r *TemplateRepository) List(ctx context.Context, level string) ([]sqlcgen.QuestionTemplate, error) {
	return r.store.ListTemplates(ctx, optionalText(level))
}

func (r *TemplateRepository) Create(ctx context.Context, params sqlcgen.CreateTemplateParams) (sqlcgen.QuestionTemplate, error) {
	return r.store.CreateTemplate(ctx, params)
}

func (r *TemplateRepository) Update(ctx context.Context, params sqlcgen.UpdateTemplateParams) (sqlcgen.QuestionTemplate, error) {
	t, err := r.store.UpdateTemplate(ctx, params)
	return t, translate(err)
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.store.DeleteTemplate(ctx, id))
}
