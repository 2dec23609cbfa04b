package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertFeedback = `
INSERT INTO feedback (question_id, template_id, variable_used, vote)
VALUES ($1, $2, $3, $4)
`

type InsertFeedbackParams struct {
	QuestionID   pgtype.Int8 `json:"question_id"`
	TemplateID   pgtype.Int8 `json:"template_id"`
	VariableUsed pgtype.Text `json:"variable_used"`
	Vote         string      `json:"vote"`
}

func (q *Queries) InsertFeedback(ctx context.Context, arg InsertFeedbackParams) error {
	_, err := q.db.Exec(ctx, insertFeedback,
		arg.QuestionID,
		arg.TemplateID,
		arg.VariableUsed,
		arg.Vote,
	)
	return err
}

const listTemplateFeedbackSummary = `
SELECT
    template_id,
    COALESCE(variable_used, '') AS variable_used,
    SUM(CASE WHEN vote = 'up' THEN 1 ELSE 0 END)::bigint AS thumbs_up,
    SUM(CASE WHEN vote = 'down' THEN 1 ELSE 0 END)::bigint AS thumbs_down
FROM feedback
WHERE template_id IS NOT NULL
GROUP BY template_id, variable_used
ORDER BY template_id, variable_used
`

func (q *Queries) ListTemplateFeedbackSummary(ctx context.Context) ([]TemplateFeedbackSummary, error) {
	rows, err := q.db.Query(ctx, listTemplateFeedbackSummary)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TemplateFeedbackSummary
	for rows.Next() {
		var i TemplateFeedbackSummary
		if err := rows.Scan(
			&i.TemplateID,
			&i.VariableUsed,
			&i.ThumbsUp,
			&i.ThumbsDown,
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
