package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type settingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	UpsertSetting(ctx context.Context, arg sqlcgen.UpsertSettingParams) error
}

// SettingsRepository is a string key/value view over the settings table.
type SettingsRepository struct {
	store settingsStore
}

func NewSettingsRepository(store settingsStore) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the raw value and whether the key exists.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.store.GetSetting(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.store.UpsertSetting(ctx, sqlcgen.UpsertSettingParams{Key: key, Value: value})
}
