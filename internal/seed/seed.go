// Package seed loads a question bank from a YAML document.
package seed

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gokatarajesh/impromptu-bank/internal/question"
)

// Bank is the on-disk layout:
//
//	questions:
//	  L1:
//	    - What is your favorite food and why?
//	templates:
//	  - level: L3
//	    pre_text: Should students be required to
//	    post_text: at school?
//	    variables: [wear uniforms, learn to cook]
type Bank struct {
	Questions map[string][]string      `yaml:"questions"`
	Templates []question.TemplateInput `yaml:"templates"`
}

// Parse decodes and validates a bank. Unknown keys are rejected so typos
// in level names or fields surface before anything is written.
func Parse(r io.Reader) (Bank, error) {
	var b Bank
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return Bank{}, fmt.Errorf("decode bank: %w", err)
	}
	for level := range b.Questions {
		if _, err := question.ParseLevel(level); err != nil {
			return Bank{}, fmt.Errorf("questions.%s: %w", level, err)
		}
	}
	for i, t := range b.Templates {
		lvl, err := question.ParseLevel(t.Level)
		if err != nil || !lvl.UsesTemplates() {
			return Bank{}, fmt.Errorf("templates[%d]: %w", i, question.ErrTemplateLevel)
		}
		if len(t.Variables) == 0 {
			return Bank{}, fmt.Errorf("templates[%d]: %w", i, question.ErrInvalidTemplate)
		}
	}
	return b, nil
}

// Writer is the subset of question.Service the loader needs.
type Writer interface {
	List(ctx context.Context, level string) ([]question.Question, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	Create(ctx context.Context, level, text string) (question.Question, error)
	ListTemplates(ctx context.Context, level string) ([]question.Template, error)
	DeleteTemplate(ctx context.Context, id int64) error
	CreateTemplate(ctx context.Context, in question.TemplateInput) (question.Template, error)
}

// Result counts what Load wrote.
type Result struct {
	Removed   int64
	Questions int
	Templates int
}

// Load writes the bank in level order. With replace, every existing
// question and template is removed first.
func Load(ctx context.Context, w Writer, b Bank, replace bool) (Result, error) {
	var res Result
	if replace {
		n, err := removeAll(ctx, w)
		if err != nil {
			return res, err
		}
		res.Removed = n
	}

	for _, level := range question.Levels {
		for _, text := range b.Questions[string(level)] {
			if _, err := w.Create(ctx, string(level), text); err != nil {
				return res, fmt.Errorf("create %s question %q: %w", level, text, err)
			}
			res.Questions++
		}
	}
	for i, t := range b.Templates {
		if _, err := w.CreateTemplate(ctx, t); err != nil {
			return res, fmt.Errorf("create template %d: %w", i, err)
		}
		res.Templates++
	}
	return res, nil
}

func removeAll(ctx context.Context, w Writer) (int64, error) {
	existing, err := w.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list questions: %w", err)
	}
	var removed int64
	if len(existing) > 0 {
		ids := make([]int64, 0, len(existing))
		for _, q := range existing {
			ids = append(ids, q.ID)
		}
		if removed, err = w.BulkDelete(ctx, ids); err != nil {
			return 0, fmt.Errorf("delete questions: %w", err)
		}
	}

	templates, err := w.ListTemplates(ctx, "")
	if err != nil {
		return removed, fmt.Errorf("list templates: %w", err)
	}
	for _, t := range templates {
		if err := w.DeleteTemplate(ctx, t.ID); err != nil {
			return removed, fmt.Errorf("delete template %d: %w", t.ID, err)
		}
		removed++
	}
	return removed, nil
}
