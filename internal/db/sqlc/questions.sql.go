package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listQuestionsByLevel = `
SELECT id, level, text, created_at FROM questions
WHERE level = $1
ORDER BY id
`

func (q *Queries) ListQuestionsByLevel(ctx context.Context, level string) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByLevel, level)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(&i.ID, &i.Level, &i.Text, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listQuestionsWithFeedback = `
SELECT
    q.id, q.level, q.text, q.created_at,
    COALESCE(SUM(CASE WHEN f.vote = 'up' THEN 1 ELSE 0 END), 0)::bigint AS thumbs_up,
    COALESCE(SUM(CASE WHEN f.vote = 'down' THEN 1 ELSE 0 END), 0)::bigint AS thumbs_down
FROM questions q
LEFT JOIN feedback f ON f.question_id = q.id
WHERE ($1::text IS NULL OR q.level = $1::text)
GROUP BY q.id
ORDER BY q.level, q.id
`

func (q *Queries) ListQuestionsWithFeedback(ctx context.Context, level pgtype.Text) ([]QuestionWithFeedback, error) {
	rows, err := q.db.Query(ctx, listQuestionsWithFeedback, level)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuestionWithFeedback
	for rows.Next() {
		var i QuestionWithFeedback
		if err := rows.Scan(
			&i.ID,
			&i.Level,
			&i.Text,
			&i.CreatedAt,
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

const countQuestionsByLevel = `
SELECT level, COUNT(*)::bigint AS count FROM questions
GROUP BY level
ORDER BY level
`

func (q *Queries) CountQuestionsByLevel(ctx context.Context) ([]LevelCount, error) {
	rows, err := q.db.Query(ctx, countQuestionsByLevel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LevelCount
	for rows.Next() {
		var i LevelCount
		if err := rows.Scan(&i.Level, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createQuestion = `
INSERT INTO questions (level, text) VALUES ($1, $2)
RETURNING id, level, text, created_at
`

type CreateQuestionParams struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

func (q *Queries) CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, createQuestion, arg.Level, arg.Text)
	var i Question
	err := row.Scan(&i.ID, &i.Level, &i.Text, &i.CreatedAt)
	return i, err
}

const updateQuestion = `
UPDATE questions SET level = $2, text = $3
WHERE id = $1
RETURNING id, level, text, created_at
`

type UpdateQuestionParams struct {
	ID    int64  `json:"id"`
	Level string `json:"level"`
	Text  string `json:"text"`
}

func (q *Queries) UpdateQuestion(ctx context.Context, arg UpdateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, updateQuestion, arg.ID, arg.Level, arg.Text)
	var i Question
	err := row.Scan(&i.ID, &i.Level, &i.Text, &i.CreatedAt)
	return i, err
}

const deleteQuestion = `
DELETE FROM questions WHERE id = $1
`

func (q *Queries) DeleteQuestion(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteQuestion, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const bulkUpdateQuestionLevel = `
UPDATE questions SET level = $1
WHERE id = ANY($2::bigint[])
`

type BulkUpdateQuestionLevelParams struct {
	Level string  `json:"level"`
	IDs   []int64 `json:"ids"`
}

func (q *Queries) BulkUpdateQuestionLevel(ctx context.Context, arg BulkUpdateQuestionLevelParams) (int64, error) {
	result, err := q.db.Exec(ctx, bulkUpdateQuestionLevel, arg.Level, arg.IDs)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const bulkDeleteQuestions = `
DELETE FROM questions WHERE id = ANY($1::bigint[])
`

func (q *Queries) BulkDeleteQuestions(ctx context.Context, ids []int64) (int64, error) {
	result, err := q.db.Exec(ctx, bulkDeleteQuestions, ids)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
