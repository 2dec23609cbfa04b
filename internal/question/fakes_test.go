package question

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/impromptu-bank/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

var t0 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type fixedLock int

func (f fixedLock) LockDurationMinutes(context.Context) (int, error) { return int(f), nil }

type failingLock struct{}

func (failingLock) LockDurationMinutes(context.Context) (int, error) {
	return 0, errors.New("settings unavailable")
}

// memQuestions stores flat questions and implements questionStore.
type memQuestions struct {
	mu     sync.Mutex
	rows   []sqlcgen.Question
	nextID int64
	counts []sqlcgen.LevelCount
}

func newMemQuestions(rows ...sqlcgen.Question) *memQuestions {
	m := &memQuestions{rows: rows}
	for _, r := range rows {
		if r.ID > m.nextID {
			m.nextID = r.ID
		}
	}
	return m
}

func q(id int64, level Level, text string) sqlcgen.Question {
	return sqlcgen.Question{ID: id, Level: string(level), Text: text, CreatedAt: pgtype.Timestamptz{Time: t0, Valid: true}}
}

func (m *memQuestions) ListByLevel(_ context.Context, level string) ([]sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sqlcgen.Question
	for _, r := range m.rows {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memQuestions) ListWithFeedback(_ context.Context, level string) ([]sqlcgen.QuestionWithFeedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sqlcgen.QuestionWithFeedback
	for _, r := range m.rows {
		if level == "" || r.Level == level {
			out = append(out, sqlcgen.QuestionWithFeedback{ID: r.ID, Level: r.Level, Text: r.Text, CreatedAt: r.CreatedAt})
		}
	}
	return out, nil
}

func (m *memQuestions) CountByLevel(context.Context) ([]sqlcgen.LevelCount, error) {
	return m.counts, nil
}

func (m *memQuestions) Create(_ context.Context, p sqlcgen.CreateQuestionParams) (sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	row := sqlcgen.Question{ID: m.nextID, Level: p.Level, Text: p.Text, CreatedAt: pgtype.Timestamptz{Time: t0, Valid: true}}
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memQuestions) Update(_ context.Context, p sqlcgen.UpdateQuestionParams) (sqlcgen.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == p.ID {
			m.rows[i].Level, m.rows[i].Text = p.Level, p.Text
			return m.rows[i], nil
		}
	}
	return sqlcgen.Question{}, repository.ErrNotFound
}

func (m *memQuestions) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memQuestions) BulkUpdateLevel(_ context.Context, ids []int64, level string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i, r := range m.rows {
		for _, id := range ids {
			if r.ID == id {
				m.rows[i].Level = level
				n++
			}
		}
	}
	return n, nil
}

func (m *memQuestions) BulkDelete(_ context.Context, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if drop[r.ID] {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

// memTemplates stores templates and implements templateStore.
type memTemplates struct {
	mu     sync.Mutex
	rows   []sqlcgen.QuestionTemplate
	nextID int64
}

func tmpl(id int64, level Level, pre, post string, vars ...string) sqlcgen.QuestionTemplate {
	raw, _ := json.Marshal(vars)
	return sqlcgen.QuestionTemplate{ID: id, Level: string(level), PreText: pre, PostText: post, Variables: raw}
}

func (m *memTemplates) List(_ context.Context, level string) ([]sqlcgen.QuestionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sqlcgen.QuestionTemplate
	for _, r := range m.rows {
		if level == "" || r.Level == level {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memTemplates) Create(_ context.Context, p sqlcgen.CreateTemplateParams) (sqlcgen.QuestionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	row := sqlcgen.QuestionTemplate{ID: m.nextID, Level: p.Level, PreText: p.PreText, PostText: p.PostText, Variables: p.Variables}
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memTemplates) Update(_ context.Context, p sqlcgen.UpdateTemplateParams) (sqlcgen.QuestionTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == p.ID {
			m.rows[i] = sqlcgen.QuestionTemplate{ID: p.ID, Level: p.Level, PreText: p.PreText, PostText: p.PostText, Variables: p.Variables}
			return m.rows[i], nil
		}
	}
	return sqlcgen.QuestionTemplate{}, repository.ErrNotFound
}

func (m *memTemplates) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type shownQuestion struct {
	id int64
	at time.Time
}

type shownPair struct {
	key sqlcgen.TemplateHistoryKey
	at  time.Time
}

// memLedger is an in-memory Ledger and PoolResetter.
type memLedger struct {
	mu        sync.Mutex
	questions []shownQuestion
	pairs     []shownPair
	writeErr  error
	reads     int
}

func (l *memLedger) RecordQuestion(_ context.Context, id int64, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeErr != nil {
		return l.writeErr
	}
	l.questions = append(l.questions, shownQuestion{id, at})
	return nil
}

func (l *memLedger) RecordTemplate(_ context.Context, id int64, variable string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeErr != nil {
		return l.writeErr
	}
	l.pairs = append(l.pairs, shownPair{sqlcgen.TemplateHistoryKey{TemplateID: id, VariableUsed: variable}, at})
	return nil
}

func (l *memLedger) QuestionsShownSince(_ context.Context, cutoff time.Time) (map[int64]struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	out := make(map[int64]struct{})
	for _, s := range l.questions {
		if s.at.After(cutoff) {
			out[s.id] = struct{}{}
		}
	}
	return out, nil
}

func (l *memLedger) TemplatePairsShownSince(_ context.Context, cutoff time.Time) (map[sqlcgen.TemplateHistoryKey]struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	out := make(map[sqlcgen.TemplateHistoryKey]struct{})
	for _, s := range l.pairs {
		if s.at.After(cutoff) {
			out[s.key] = struct{}{}
		}
	}
	return out, nil
}

func (l *memLedger) ResetPool(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.questions, l.pairs = nil, nil
	return nil
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// firstPick always returns index 0.
type firstPick struct{}

func (firstPick) IntN(int) int { return 0 }
