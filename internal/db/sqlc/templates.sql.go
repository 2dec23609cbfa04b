package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listTemplates = `
SELECT id, level, pre_text, post_text, variables, created_at FROM question_templates
WHERE ($1::text IS NULL OR level = $1::text)
ORDER BY level, id
`

func (q *Queries) ListTemplates(ctx context.Context, level pgtype.Text) ([]QuestionTemplate, error) {
	rows, err := q.db.Query(ctx, listTemplates, level)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuestionTemplate
	for rows.Next() {
		var i QuestionTemplate
		if err := rows.Scan(
			&i.ID,
			&i.Level,
			&i.PreText,
			&i.PostText,
			&i.Variables,
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

const createTemplate = `
INSERT INTO question_templates (level, pre_text, post_text, variables)
VALUES ($1, $2, $3, $4)
RETURNING id, level, pre_text, post_text, variables, created_at
`

type CreateTemplateParams struct {
	Level     string `json:"level"`
	PreText   string `json:"pre_text"`
	PostText  string `json:"post_text"`
	Variables []byte `json:"variables"`
}

func (q *Queries) CreateTemplate(ctx context.Context, arg CreateTemplateParams) (QuestionTemplate, error) {
	row := q.db.QueryRow(ctx, createTemplate,
		arg.Level,
		arg.PreText,
		arg.PostText,
		arg.Variables,
	)
	var i QuestionTemplate
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.PreText,
		&i.PostText,
		&i.Variables,
		&i.CreatedAt,
	)
	return i, err
}

const updateTemplate = `
UPDATE question_templates
SET level = $2, pre_text = $3, post_text = $4, variables = $5
WHERE id = $1
RETURNING id, level, pre_text, post_text, variables, created_at
`

type UpdateTemplateParams struct {
	ID        int64  `json:"id"`
	Level     string `json:"level"`
	PreText   string `json:"pre_text"`
	PostText  string `json:"post_text"`
	Variables []byte `json:"variables"`
}

func (q *Queries) UpdateTemplate(ctx context.Context, arg UpdateTemplateParams) (QuestionTemplate, error) {
	row := q.db.QueryRow(ctx, updateTemplate,
		arg.ID,
		arg.Level,
		arg.PreText,
		arg.PostText,
		arg.Variables,
	)
	var i QuestionTemplate
	err := row.Scan(
		&i.ID,
		&i.Level,
		&i.PreText,
		&i.PostText,
		&i.Variables,
		&i.CreatedAt,
	)
	return i, err
}

const deleteTemplate = `
DELETE FROM question_templates WHERE id = $1
`

func (q *Queries) DeleteTemplate(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTemplate, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
