package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

// LockDurationSource yields the current no-repeat window in minutes.
type LockDurationSource interface {
	LockDurationMinutes(ctx context.Context) (int, error)
}

type questionSource interface {
	ListByLevel(ctx context.Context, level string) ([]sqlcgen.Question, error)
}

type templateSource interface {
	List(ctx context.Context, level string) ([]sqlcgen.QuestionTemplate, error)
}

// Ledger is the append-only record of what was shown and when.
type Ledger interface {
	RecordQuestion(ctx context.Context, questionID int64, at time.Time) error
	RecordTemplate(ctx context.Context, templateID int64, variable string, at time.Time) error
	QuestionsShownSince(ctx context.Context, cutoff time.Time) (map[int64]struct{}, error)
	TemplatePairsShownSince(ctx context.Context, cutoff time.Time) (map[sqlcgen.TemplateHistoryKey]struct{}, error)
}

// RandomSource picks an index in [0, n). Implementations must be safe for
// concurrent use.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Selector draws one question per call, preferring content outside the
// lock window and falling back to the whole pool when everything is locked.
type Selector struct {
	questions questionSource
	templates templateSource
	ledger    Ledger
	lock      LockDurationSource
	rng       RandomSource
	now       func() time.Time
	logger    zerolog.Logger
}

type SelectorOption func(*Selector)

// WithRandom replaces the default math/rand/v2 source.
func WithRandom(rng RandomSource) SelectorOption {
	return func(s *Selector) { s.rng = rng }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SelectorOption {
	return func(s *Selector) { s.now = now }
}

func NewSelector(questions questionSource, templates templateSource, ledger Ledger, lock LockDurationSource, logger zerolog.Logger, opts ...SelectorOption) *Selector {
	s := &Selector{
		questions: questions,
		templates: templates,
		ledger:    ledger,
		lock:      lock,
		rng:       globalRand{},
		now:       time.Now,
		logger:    logger.With().Str("component", "question_selector").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Draw selects and records one question for the level. The history write
// completes before Draw returns, so a following draw observes it.
func (s *Selector) Draw(ctx context.Context, level Level) (Draw, error) {
	lockMinutes, err := s.lock.LockDurationMinutes(ctx)
	if err != nil {
		return Draw{}, fmt.Errorf("read lock duration: %w", err)
	}

	var d Draw
	if level.UsesTemplates() {
		d, err = s.drawTemplate(ctx, level, lockMinutes)
	} else {
		d, err = s.drawFlat(ctx, level, lockMinutes)
	}
	if errors.Is(err, ErrNoContentForLevel) {
		drawNotFoundTotal.WithLabelValues(string(level)).Inc()
	}
	if err != nil {
		return Draw{}, err
	}
	d.Level = level
	recordDraw(d)
	return d, nil
}

func (s *Selector) drawFlat(ctx context.Context, level Level, lockMinutes int) (Draw, error) {
	all, err := s.questions.ListByLevel(ctx, string(level))
	if err != nil {
		return Draw{}, fmt.Errorf("list questions: %w", err)
	}
	if len(all) == 0 {
		return Draw{}, ErrNoContentForLevel
	}

	now := s.now()
	eligible := all
	if lockMinutes > 0 {
		shown, err := s.ledger.QuestionsShownSince(ctx, now.Add(-time.Duration(lockMinutes)*time.Minute))
		if err != nil {
			return Draw{}, fmt.Errorf("read question history: %w", err)
		}
		eligible = make([]sqlcgen.Question, 0, len(all))
		for _, q := range all {
			if _, ok := shown[q.ID]; !ok {
				eligible = append(eligible, q)
			}
		}
	}

	fallback := len(eligible) == 0
	if fallback {
		eligible = all
	}
	picked := eligible[s.rng.IntN(len(eligible))]

	if err := s.ledger.RecordQuestion(ctx, picked.ID, now); err != nil {
		return Draw{}, fmt.Errorf("record question history: %w", err)
	}

	return Draw{
		Generated: Generated{Type: KindSimple, ID: picked.ID, Text: picked.Text},
		Fallback:  fallback,
	}, nil
}

type combination struct {
	template Template
	variable string
}

func (s *Selector) drawTemplate(ctx context.Context, level Level, lockMinutes int) (Draw, error) {
	rows, err := s.templates.List(ctx, string(level))
	if err != nil {
		return Draw{}, fmt.Errorf("list templates: %w", err)
	}

	var all []combination
	for _, row := range rows {
		t, err := templateFromRow(row)
		if err != nil {
			s.logger.Warn().Err(err).Int64("template_id", row.ID).Msg("skipping template with unreadable variables")
			continue
		}
		for _, v := range t.Variables {
			all = append(all, combination{template: t, variable: v})
		}
	}
	if len(all) == 0 {
		return Draw{}, ErrNoContentForLevel
	}

	now := s.now()
	eligible := all
	if lockMinutes > 0 {
		shown, err := s.ledger.TemplatePairsShownSince(ctx, now.Add(-time.Duration(lockMinutes)*time.Minute))
		if err != nil {
			return Draw{}, fmt.Errorf("read template history: %w", err)
		}
		eligible = make([]combination, 0, len(all))
		for _, c := range all {
			key := sqlcgen.TemplateHistoryKey{TemplateID: c.template.ID, VariableUsed: c.variable}
			if _, ok := shown[key]; !ok {
				eligible = append(eligible, c)
			}
		}
	}

	fallback := len(eligible) == 0
	if fallback {
		eligible = all
	}
	picked := eligible[s.rng.IntN(len(eligible))]

	if err := s.ledger.RecordTemplate(ctx, picked.template.ID, picked.variable, now); err != nil {
		return Draw{}, fmt.Errorf("record template history: %w", err)
	}

	templateID := picked.template.ID
	return Draw{
		Generated: Generated{
			Type:         KindTemplate,
			ID:           templateID,
			Text:         picked.template.Render(picked.variable),
			TemplateID:   &templateID,
			VariableUsed: picked.variable,
		},
		Fallback: fallback,
	}, nil
}

func templateFromRow(row sqlcgen.QuestionTemplate) (Template, error) {
	var vars []string
	if err := json.Unmarshal(row.Variables, &vars); err != nil {
		return Template{}, fmt.Errorf("decode variables: %w", err)
	}
	return Template{
		ID:        row.ID,
		Level:     Level(row.Level),
		PreText:   row.PreText,
		PostText:  row.PostText,
		Variables: vars,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}
