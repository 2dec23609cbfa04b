package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) InsertQuestionHistory(ctx context.Context, arg sqlcgen.InsertQuestionHistoryParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockHistoryStore) InsertTemplateHistory(ctx context.Context, arg sqlcgen.InsertTemplateHistoryParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockHistoryStore) ListQuestionIDsShownSince(ctx context.Context, cutoff pgtype.Timestamptz) ([]int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockHistoryStore) ListTemplatePairsShownSince(ctx context.Context, cutoff pgtype.Timestamptz) ([]sqlcgen.TemplateHistoryKey, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]sqlcgen.TemplateHistoryKey), args.Error(1)
}

func (m *mockHistoryStore) DeleteAllQuestionHistory(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistoryStore) DeleteAllTemplateHistory(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistoryStore) DeleteQuestionHistoryBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockHistoryStore) DeleteTemplateHistoryBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestHistoryRepository_RecordTemplate(t *testing.T) {
	store := new(mockHistoryStore)
	repo := NewHistoryRepository(store, nil)

	store.On("InsertTemplateHistory", mock.Anything, sqlcgen.InsertTemplateHistoryParams{
		TemplateID:   7,
		VariableUsed: "pasta",
		ShownAt:      ts(fixedNow),
	}).Return(nil)

	require.NoError(t, repo.RecordTemplate(context.Background(), 7, "pasta", fixedNow))
	store.AssertExpectations(t)
}

func TestHistoryRepository_TemplatePairsShownSince(t *testing.T) {
	store := new(mockHistoryStore)
	repo := NewHistoryRepository(store, nil)

	cutoff := fixedNow.Add(-30 * time.Minute)
	store.On("ListTemplatePairsShownSince", mock.Anything, ts(cutoff)).Return([]sqlcgen.TemplateHistoryKey{
		{TemplateID: 1, VariableUsed: "rice"},
		{TemplateID: 1, VariableUsed: "pasta"},
	}, nil)

	got, err := repo.TemplatePairsShownSince(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, sqlcgen.TemplateHistoryKey{TemplateID: 1, VariableUsed: "rice"})
	assert.NotContains(t, got, sqlcgen.TemplateHistoryKey{TemplateID: 2, VariableUsed: "rice"})
}

func TestHistoryRepository_ResetPoolClearsBothKinds(t *testing.T) {
	store := new(mockHistoryStore)
	repo := NewHistoryRepository(store, nil)

	store.On("DeleteAllQuestionHistory", mock.Anything).Return(int64(12), nil).Once()
	store.On("DeleteAllTemplateHistory", mock.Anything).Return(int64(4), nil).Once()

	require.NoError(t, repo.ResetPool(context.Background()))
	store.AssertExpectations(t)
}

func TestHistoryRepository_ResetPoolStopsOnError(t *testing.T) {
	store := new(mockHistoryStore)
	repo := NewHistoryRepository(store, nil)

	store.On("DeleteAllQuestionHistory", mock.Anything).Return(int64(0), errors.New("db down"))

	err := repo.ResetPool(context.Background())

	assert.ErrorContains(t, err, "db down")
	store.AssertNotCalled(t, "DeleteAllTemplateHistory", mock.Anything)
}

func TestHistoryRepository_CleanupBefore(t *testing.T) {
	store := new(mockHistoryStore)
	repo := NewHistoryRepository(store, nil)

	cutoff := fixedNow.Add(-24 * time.Hour)
	store.On("DeleteQuestionHistoryBefore", mock.Anything, ts(cutoff)).Return(int64(3), nil)
	store.On("DeleteTemplateHistoryBefore", mock.Anything, ts(cutoff)).Return(int64(5), nil)

	n, err := repo.CleanupBefore(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
}
