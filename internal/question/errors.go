package question

import "errors"

var (
	// ErrNoContentForLevel means the level has no questions, no templates,
	// or only templates with empty variable lists.
	ErrNoContentForLevel = errors.New("no questions found for this level")
	ErrInvalidLevel      = errors.New("invalid level. Must be one of: L1, L2, L3, L4, L5")
	ErrNotFound          = errors.New("question not found")
	ErrInvalidTemplate   = errors.New("template variables must be a non-empty list of strings")
	ErrTemplateLevel     = errors.New("templates are only allowed for levels L3 and L4")
	ErrEmptyText         = errors.New("text is required")
	ErrEmptyIDs          = errors.New("ids must be a non-empty list")
)
