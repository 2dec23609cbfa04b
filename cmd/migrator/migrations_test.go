package main

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedRow = regexp.MustCompile(`\('(L\d)', '((?:[^']|'')*)'(?:, '((?:[^']|'')*)')?`)

func seedRows(sql string) map[string]bool {
	rows := make(map[string]bool)
	for _, m := range seedRow.FindAllStringSubmatch(sql, -1) {
		rows[m[1]+"|"+m[2]+"|"+m[3]] = true
	}
	return rows
}

func TestSeedMigrationDownRemovesSeededRows(t *testing.T) {
	raw, err := os.ReadFile("../../db/migrations/00002_seed_questions.sql")
	require.NoError(t, err)

	up, down, found := strings.Cut(string(raw), "-- +goose Down")
	require.True(t, found)

	seeded := seedRows(up)
	require.NotEmpty(t, seeded)
	assert.Equal(t, seeded, seedRows(down))
	assert.Contains(t, down, "DELETE FROM questions")
	assert.Contains(t, down, "DELETE FROM question_templates")
}
