package sqlcgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Question struct {
	ID        int64              `json:"id"`
	Level     string             `json:"level"`
	Text      string             `json:"text"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type QuestionWithFeedback struct {
	ID         int64              `json:"id"`
	Level      string             `json:"level"`
	Text       string             `json:"text"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	ThumbsUp   int64              `json:"thumbs_up"`
	ThumbsDown int64              `json:"thumbs_down"`
}

type LevelCount struct {
	Level string `json:"level"`
	Count int64  `json:"count"`
}

type QuestionTemplate struct {
	ID        int64              `json:"id"`
	Level     string             `json:"level"`
	PreText   string             `json:"pre_text"`
	PostText  string             `json:"post_text"`
	Variables []byte             `json:"variables"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type TemplateHistoryKey struct {
	TemplateID   int64  `json:"template_id"`
	VariableUsed string `json:"variable_used"`
}

type TemplateFeedbackSummary struct {
	TemplateID   int64  `json:"template_id"`
	VariableUsed string `json:"variable_used"`
	ThumbsUp     int64  `json:"thumbs_up"`
	ThumbsDown   int64  `json:"thumbs_down"`
}

type NumberInput struct {
	ID        int64              `json:"id"`
	Number    int64              `json:"number"`
	Level     string             `json:"level"`
	IpAddress pgtype.Text        `json:"ip_address"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type SiteAccessLog struct {
	ID         int64              `json:"id"`
	IpAddress  string             `json:"ip_address"`
	UserAgent  pgtype.Text        `json:"user_agent"`
	DeviceInfo []byte             `json:"device_info"`
	Location   []byte             `json:"location"`
	Success    bool               `json:"success"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type User struct {
	ID        int64              `json:"id"`
	Username  string             `json:"username"`
	Approved  bool               `json:"approved"`
	IsAdmin   bool               `json:"is_admin"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type UserWithActivity struct {
	ID            int64              `json:"id"`
	Username      string             `json:"username"`
	Approved      bool               `json:"approved"`
	IsAdmin       bool               `json:"is_admin"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	ActivityCount int64              `json:"activity_count"`
	LastActive    pgtype.Timestamptz `json:"last_active"`
}

type UserActivity struct {
	ID           int64              `json:"id"`
	UserID       int64              `json:"user_id"`
	QuestionType string             `json:"question_type"`
	QuestionID   pgtype.Int8        `json:"question_id"`
	TemplateID   pgtype.Int8        `json:"template_id"`
	VariableUsed pgtype.Text        `json:"variable_used"`
	Level        string             `json:"level"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	QuestionText pgtype.Text        `json:"question_text"`
}
