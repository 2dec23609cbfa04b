package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertQuestionHistory = `
INSERT INTO question_history (question_id, shown_at) VALUES ($1, $2)
`

type InsertQuestionHistoryParams struct {
	QuestionID int64              `json:"question_id"`
	ShownAt    pgtype.Timestamptz `json:"shown_at"`
}

func (q *Queries) InsertQuestionHistory(ctx context.Context, arg InsertQuestionHistoryParams) error {
	_, err := q.db.Exec(ctx, insertQuestionHistory, arg.QuestionID, arg.ShownAt)
	return err
}

const insertTemplateHistory = `
INSERT INTO template_history (template_id, variable_used, shown_at) VALUES ($1, $2, $3)
`

type InsertTemplateHistoryParams struct {
	TemplateID   int64              `json:"template_id"`
	VariableUsed string             `json:"variable_used"`
	ShownAt      pgtype.Timestamptz `json:"shown_at"`
}

func (q *Queries) InsertTemplateHistory(ctx context.Context, arg InsertTemplateHistoryParams) error {
	_, err := q.db.Exec(ctx, insertTemplateHistory, arg.TemplateID, arg.VariableUsed, arg.ShownAt)
	return err
}

const listQuestionIDsShownSince = `
SELECT DISTINCT question_id FROM question_history
WHERE shown_at > $1
`

func (q *Queries) ListQuestionIDsShownSince(ctx context.Context, cutoff pgtype.Timestamptz) ([]int64, error) {
	rows, err := q.db.Query(ctx, listQuestionIDsShownSince, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var questionID int64
		if err := rows.Scan(&questionID); err != nil {
			return nil, err
		}
		items = append(items, questionID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTemplatePairsShownSince = `
SELECT DISTINCT template_id, variable_used FROM template_history
WHERE shown_at > $1
`

func (q *Queries) ListTemplatePairsShownSince(ctx context.Context, cutoff pgtype.Timestamptz) ([]TemplateHistoryKey, error) {
	rows, err := q.db.Query(ctx, listTemplatePairsShownSince, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TemplateHistoryKey
	for rows.Next() {
		var i TemplateHistoryKey
		if err := rows.Scan(&i.TemplateID, &i.VariableUsed); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllQuestionHistory = `
DELETE FROM question_history
`

func (q *Queries) DeleteAllQuestionHistory(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAllQuestionHistory)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteAllTemplateHistory = `
DELETE FROM template_history
`

func (q *Queries) DeleteAllTemplateHistory(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAllTemplateHistory)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteQuestionHistoryBefore = `
DELETE FROM question_history WHERE shown_at < $1
`

func (q *Queries) DeleteQuestionHistoryBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, deleteQuestionHistoryBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteTemplateHistoryBefore = `
DELETE FROM template_history WHERE shown_at < $1
`

func (q *Queries) DeleteTemplateHistoryBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTemplateHistoryBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
