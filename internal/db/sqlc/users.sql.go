package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getUserByUsername = `
SELECT id, username, approved, is_admin, created_at FROM users
WHERE username = $1
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByUsername, username)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Approved,
		&i.IsAdmin,
		&i.CreatedAt,
	)
	return i, err
}

const getUserByID = `
SELECT id, username, approved, is_admin, created_at FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Approved,
		&i.IsAdmin,
		&i.CreatedAt,
	)
	return i, err
}

const createUser = `
INSERT INTO users (username) VALUES ($1)
ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
RETURNING id, username, approved, is_admin, created_at
`

func (q *Queries) CreateUser(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, createUser, username)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Approved,
		&i.IsAdmin,
		&i.CreatedAt,
	)
	return i, err
}

const listUsersWithActivity = `
SELECT
    u.id, u.username, u.approved, u.is_admin, u.created_at,
    COUNT(ua.id)::bigint AS activity_count,
    MAX(ua.created_at) AS last_active
FROM users u
LEFT JOIN user_activity ua ON ua.user_id = u.id
GROUP BY u.id
ORDER BY u.created_at DESC
`

func (q *Queries) ListUsersWithActivity(ctx context.Context) ([]UserWithActivity, error) {
	rows, err := q.db.Query(ctx, listUsersWithActivity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []UserWithActivity
	for rows.Next() {
		var i UserWithActivity
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.Approved,
			&i.IsAdmin,
			&i.CreatedAt,
			&i.ActivityCount,
			&i.LastActive,
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

const setUserApproved = `
UPDATE users SET approved = $2 WHERE id = $1
`

type SetUserApprovedParams struct {
	ID       int64 `json:"id"`
	Approved bool  `json:"approved"`
}

func (q *Queries) SetUserApproved(ctx context.Context, arg SetUserApprovedParams) (int64, error) {
	result, err := q.db.Exec(ctx, setUserApproved, arg.ID, arg.Approved)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteUser = `
DELETE FROM users WHERE id = $1
`

func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertUserActivity = `
INSERT INTO user_activity (user_id, question_type, question_id, template_id, variable_used, level)
VALUES ($1, $2, $3, $4, $5, $6)
`

type InsertUserActivityParams struct {
	UserID       int64       `json:"user_id"`
	QuestionType string      `json:"question_type"`
	QuestionID   pgtype.Int8 `json:"question_id"`
	TemplateID   pgtype.Int8 `json:"template_id"`
	VariableUsed pgtype.Text `json:"variable_used"`
	Level        string      `json:"level"`
}

func (q *Queries) InsertUserActivity(ctx context.Context, arg InsertUserActivityParams) error {
	_, err := q.db.Exec(ctx, insertUserActivity,
		arg.UserID,
		arg.QuestionType,
		arg.QuestionID,
		arg.TemplateID,
		arg.VariableUsed,
		arg.Level,
	)
	return err
}

const countUserActivity = `
SELECT COUNT(*)::bigint FROM user_activity WHERE user_id = $1
`

func (q *Queries) CountUserActivity(ctx context.Context, userID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countUserActivity, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listUserActivity = `
SELECT
    ua.id, ua.user_id, ua.question_type, ua.question_id, ua.template_id,
    ua.variable_used, ua.level, ua.created_at,
    CASE
        WHEN ua.question_type = 'simple' THEN q.text
        WHEN ua.question_type = 'template' THEN qt.pre_text || ' ' || ua.variable_used || ' ' || qt.post_text
    END AS question_text
FROM user_activity ua
LEFT JOIN questions q ON q.id = ua.question_id AND ua.question_type = 'simple'
LEFT JOIN question_templates qt ON qt.id = ua.template_id AND ua.question_type = 'template'
WHERE ua.user_id = $1
ORDER BY ua.created_at DESC, ua.id DESC
LIMIT $2 OFFSET $3
`

type ListUserActivityParams struct {
	UserID int64 `json:"user_id"`
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListUserActivity(ctx context.Context, arg ListUserActivityParams) ([]UserActivity, error) {
	rows, err := q.db.Query(ctx, listUserActivity, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []UserActivity
	for rows.Next() {
		var i UserActivity
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.QuestionType,
			&i.QuestionID,
			&i.TemplateID,
			&i.VariableUsed,
			&i.Level,
			&i.CreatedAt,
			&i.QuestionText,
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
