// Package feedback records thumbs up/down votes on drawn questions.
package feedback

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/impromptu-bank/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type Vote string

const (
	VoteUp   Vote = "up"
	VoteDown Vote = "down"
)

var (
	ErrInvalidVote   = errors.New(`vote must be "up" or "down"`)
	ErrMissingTarget = errors.New("either questionId or templateId is required")
	ErrUnknownTarget = errors.New("question or template not found")
)

type store interface {
	Insert(ctx context.Context, params sqlcgen.InsertFeedbackParams) error
	TemplateSummary(ctx context.Context) ([]sqlcgen.TemplateFeedbackSummary, error)
}

// Input is the POST /api/feedback body. Template votes name the variable
// that was shown.
type Input struct {
	QuestionID   *int64 `json:"questionId"`
	TemplateID   *int64 `json:"templateId"`
	VariableUsed string `json:"variableUsed" validate:"max=500"`
	Vote         Vote   `json:"vote" validate:"required"`
}

func (in Input) Validate() error {
	if in.Vote != VoteUp && in.Vote != VoteDown {
		return ErrInvalidVote
	}
	if !positive(in.QuestionID) && !positive(in.TemplateID) {
		return ErrMissingTarget
	}
	return nil
}

func positive(id *int64) bool { return id != nil && *id > 0 }

type Service struct {
	store store
}

func NewService(store store) *Service {
	return &Service{store: store}
}

func (s *Service) Submit(ctx context.Context, in Input) error {
	if err := in.Validate(); err != nil {
		return err
	}
	params := sqlcgen.InsertFeedbackParams{Vote: string(in.Vote)}
	if positive(in.QuestionID) {
		params.QuestionID = pgtype.Int8{Int64: *in.QuestionID, Valid: true}
	}
	if positive(in.TemplateID) {
		params.TemplateID = pgtype.Int8{Int64: *in.TemplateID, Valid: true}
	}
	if v := strings.TrimSpace(in.VariableUsed); v != "" {
		params.VariableUsed = pgtype.Text{String: v, Valid: true}
	}
	if err := s.store.Insert(ctx, params); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return ErrUnknownTarget
		}
		return err
	}
	return nil
}

type TemplateTotals struct {
	TemplateID   int64  `json:"template_id"`
	VariableUsed string `json:"variable_used"`
	ThumbsUp     int64  `json:"thumbs_up"`
	ThumbsDown   int64  `json:"thumbs_down"`
}

func (s *Service) TemplateSummary(ctx context.Context) ([]TemplateTotals, error) {
	rows, err := s.store.TemplateSummary(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateTotals, 0, len(rows))
	for _, r := range rows {
		out = append(out, TemplateTotals(r))
	}
	return out, nil
}
