package question

import (
	"time"
)

// Level identifies a difficulty tier.
type Level string

const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
	LevelL3 Level = "L3"
	LevelL4 Level = "L4"
	LevelL5 Level = "L5"
)

// Levels lists every tier in display order.
var Levels = []Level{LevelL1, LevelL2, LevelL3, LevelL4, LevelL5}

// ParseLevel accepts exactly "L1".."L5".
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", ErrInvalidLevel
}

// UsesTemplates reports whether draws for the level come from templates
// rather than flat questions.
func (l Level) UsesTemplates() bool {
	return l == LevelL3 || l == LevelL4
}

// Kind constants.
const (
	KindSimple   = "simple"
	KindTemplate = "template"
)

// Question is a single flat prompt.
type Question struct {
	ID         int64     `json:"id"`
	Level      Level     `json:"level"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	ThumbsUp   int64     `json:"thumbs_up"`
	ThumbsDown int64     `json:"thumbs_down"`
}

// Template expands into one prompt per variable: PreText + " " + v + " " + PostText.
type Template struct {
	ID        int64     `json:"id"`
	Level     Level     `json:"level"`
	PreText   string    `json:"pre_text"`
	PostText  string    `json:"post_text"`
	Variables []string  `json:"variables"`
	CreatedAt time.Time `json:"created_at"`
}

// Render composes the prompt text for one variable.
func (t Template) Render(variable string) string {
	return t.PreText + " " + variable + " " + t.PostText
}

// Generated is the result of a draw.
type Generated struct {
	Type         string `json:"type"`
	ID           int64  `json:"id"`
	Text         string `json:"text"`
	TemplateID   *int64 `json:"templateId,omitempty"`
	VariableUsed string `json:"variableUsed,omitempty"`
}

// Draw is a Generated plus whether it came from the fallback pool.
type Draw struct {
	Generated
	Level    Level
	Fallback bool
}
