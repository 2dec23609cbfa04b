package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type mockSettingsStore struct {
	mock.Mock
}

func (m *mockSettingsStore) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockSettingsStore) UpsertSetting(ctx context.Context, arg sqlcgen.UpsertSettingParams) error {
	return m.Called(ctx, arg).Error(0)
}

func TestSettingsRepository_GetMissingKey(t *testing.T) {
	store := new(mockSettingsStore)
	repo := NewSettingsRepository(store)

	store.On("GetSetting", mock.Anything, "lock_duration_minutes").Return("", pgx.ErrNoRows)

	v, ok, err := repo.Get(context.Background(), "lock_duration_minutes")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSettingsRepository_SetThenGet(t *testing.T) {
	store := new(mockSettingsStore)
	repo := NewSettingsRepository(store)

	store.On("UpsertSetting", mock.Anything, sqlcgen.UpsertSettingParams{Key: "max_number", Value: "500"}).Return(nil)
	store.On("GetSetting", mock.Anything, "max_number").Return("500", nil)

	require.NoError(t, repo.Set(context.Background(), "max_number", "500"))
	v, ok, err := repo.Get(context.Background(), "max_number")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "500", v)
	store.AssertExpectations(t)
}
