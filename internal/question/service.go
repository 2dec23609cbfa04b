package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/impromptu-bank/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type questionStore interface {
	questionSource
	ListWithFeedback(ctx context.Context, level string) ([]sqlcgen.QuestionWithFeedback, error)
	CountByLevel(ctx context.Context) ([]sqlcgen.LevelCount, error)
	Create(ctx context.Context, params sqlcgen.CreateQuestionParams) (sqlcgen.Question, error)
	Update(ctx context.Context, params sqlcgen.UpdateQuestionParams) (sqlcgen.Question, error)
	Delete(ctx context.Context, id int64) error
	BulkUpdateLevel(ctx context.Context, ids []int64, level string) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
}

type templateStore interface {
	templateSource
	Create(ctx context.Context, params sqlcgen.CreateTemplateParams) (sqlcgen.QuestionTemplate, error)
	Update(ctx context.Context, params sqlcgen.UpdateTemplateParams) (sqlcgen.QuestionTemplate, error)
	Delete(ctx context.Context, id int64) error
}

// PoolResetter clears every history record in one step.
type PoolResetter interface {
	ResetPool(ctx context.Context) error
}

// CountsCache holds per-level question counts between writes.
type CountsCache interface {
	Get(ctx context.Context) (map[Level]int64, error)
	Set(ctx context.Context, counts map[Level]int64) error
	Invalidate(ctx context.Context) error
}

// Service implements the administrative operations on the question bank.
type Service struct {
	questions questionStore
	templates templateStore
	history   PoolResetter
	cache     CountsCache
	logger    zerolog.Logger
}

// NewService wires the admin operations. cache may be nil.
func NewService(questions questionStore, templates templateStore, history PoolResetter, cache CountsCache, logger zerolog.Logger) *Service {
	return &Service{
		questions: questions,
		templates: templates,
		history:   history,
		cache:     cache,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

// ResetPool makes every question and template combination eligible again.
func (s *Service) ResetPool(ctx context.Context) error {
	if err := s.history.ResetPool(ctx); err != nil {
		return err
	}
	poolResetsTotal.Inc()
	s.logger.Info().Msg("question pool reset")
	return nil
}

// List returns questions with their vote totals. An empty level lists all.
func (s *Service) List(ctx context.Context, level string) ([]Question, error) {
	if level != "" {
		if _, err := ParseLevel(level); err != nil {
			return nil, err
		}
	}
	rows, err := s.questions.ListWithFeedback(ctx, level)
	if err != nil {
		return nil, err
	}
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, Question{
			ID:         row.ID,
			Level:      Level(row.Level),
			Text:       row.Text,
			CreatedAt:  row.CreatedAt.Time,
			ThumbsUp:   row.ThumbsUp,
			ThumbsDown: row.ThumbsDown,
		})
	}
	return out, nil
}

// Counts returns the number of flat questions per level, including zeros.
func (s *Service) Counts(ctx context.Context) (map[Level]int64, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Msg("counts cache read failed")
		}
	}

	rows, err := s.questions.CountByLevel(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[Level]int64, len(Levels))
	for _, l := range Levels {
		counts[l] = 0
	}
	for _, row := range rows {
		counts[Level(row.Level)] = row.Count
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, counts); err != nil {
			s.logger.Warn().Err(err).Msg("counts cache write failed")
		}
	}
	return counts, nil
}

func (s *Service) Create(ctx context.Context, level, text string) (Question, error) {
	lvl, text, err := validateQuestion(level, text)
	if err != nil {
		return Question{}, err
	}
	row, err := s.questions.Create(ctx, sqlcgen.CreateQuestionParams{Level: string(lvl), Text: text})
	if err != nil {
		return Question{}, err
	}
	s.invalidateCounts(ctx)
	return questionFromRow(row), nil
}

// Update rewrites a question in place. Its history stays attached to the id.
func (s *Service) Update(ctx context.Context, id int64, level, text string) (Question, error) {
	lvl, text, err := validateQuestion(level, text)
	if err != nil {
		return Question{}, err
	}
	row, err := s.questions.Update(ctx, sqlcgen.UpdateQuestionParams{ID: id, Level: string(lvl), Text: text})
	if err != nil {
		return Question{}, mapNotFound(err)
	}
	s.invalidateCounts(ctx)
	return questionFromRow(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.invalidateCounts(ctx)
	return nil
}

// BulkUpdateLevel moves questions to another level and reports how many moved.
func (s *Service) BulkUpdateLevel(ctx context.Context, ids []int64, level string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyIDs
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return 0, err
	}
	n, err := s.questions.BulkUpdateLevel(ctx, ids, string(lvl))
	if err != nil {
		return 0, err
	}
	s.invalidateCounts(ctx)
	return n, nil
}

func (s *Service) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyIDs
	}
	n, err := s.questions.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.invalidateCounts(ctx)
	return n, nil
}

// ListTemplates returns templates, optionally restricted to L3 or L4.
func (s *Service) ListTemplates(ctx context.Context, level string) ([]Template, error) {
	if level != "" {
		if _, err := parseTemplateLevel(level); err != nil {
			return nil, err
		}
	}
	rows, err := s.templates.List(ctx, level)
	if err != nil {
		return nil, err
	}
	out := make([]Template, 0, len(rows))
	for _, row := range rows {
		t, err := templateFromRow(row)
		if err != nil {
			s.logger.Warn().Err(err).Int64("template_id", row.ID).Msg("template has unreadable variables")
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// TemplateInput is the writable part of a template.
type TemplateInput struct {
	Level     string   `json:"level" yaml:"level"`
	PreText   string   `json:"pre_text" yaml:"pre_text"`
	PostText  string   `json:"post_text" yaml:"post_text"`
	Variables []string `json:"variables" yaml:"variables"`
}

func (s *Service) CreateTemplate(ctx context.Context, in TemplateInput) (Template, error) {
	params, err := templateParams(in)
	if err != nil {
		return Template{}, err
	}
	row, err := s.templates.Create(ctx, sqlcgen.CreateTemplateParams(params))
	if err != nil {
		return Template{}, err
	}
	return templateFromRow(row)
}

func (s *Service) UpdateTemplate(ctx context.Context, id int64, in TemplateInput) (Template, error) {
	params, err := templateParams(in)
	if err != nil {
		return Template{}, err
	}
	row, err := s.templates.Update(ctx, sqlcgen.UpdateTemplateParams{
		ID:        id,
		Level:     params.Level,
		PreText:   params.PreText,
		PostText:  params.PostText,
		Variables: params.Variables,
	})
	if err != nil {
		return Template{}, mapNotFound(err)
	}
	return templateFromRow(row)
}

func (s *Service) DeleteTemplate(ctx context.Context, id int64) error {
	return mapNotFound(s.templates.Delete(ctx, id))
}

func (s *Service) invalidateCounts(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("counts cache invalidate failed")
	}
}

func validateQuestion(level, text string) (Level, string, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return "", "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", ErrEmptyText
	}
	return lvl, text, nil
}

func parseTemplateLevel(level string) (Level, error) {
	lvl, err := ParseLevel(level)
	if err != nil || !lvl.UsesTemplates() {
		return "", ErrTemplateLevel
	}
	return lvl, nil
}

type templateWrite struct {
	Level     string
	PreText   string
	PostText  string
	Variables []byte
}

func templateParams(in TemplateInput) (templateWrite, error) {
	lvl, err := parseTemplateLevel(in.Level)
	if err != nil {
		return templateWrite{}, err
	}
	if len(in.Variables) == 0 {
		return templateWrite{}, ErrInvalidTemplate
	}
	for _, v := range in.Variables {
		if strings.TrimSpace(v) == "" {
			return templateWrite{}, ErrInvalidTemplate
		}
	}
	raw, err := json.Marshal(in.Variables)
	if err != nil {
		return templateWrite{}, fmt.Errorf("encode variables: %w", err)
	}
	return templateWrite{
		Level:     string(lvl),
		PreText:   in.PreText,
		PostText:  in.PostText,
		Variables: raw,
	}, nil
}

func questionFromRow(row sqlcgen.Question) Question {
	return Question{
		ID:        row.ID,
		Level:     Level(row.Level),
		Text:      row.Text,
		CreatedAt: row.CreatedAt.Time,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
