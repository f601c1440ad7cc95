package repository

import (
	"context"
	"errors"
	"time"

	"github.com/studentflow/studentflow-backend/internal/config"
	"github.com/studentflow/studentflow-backend/internal/model"
)

// SettingRepository stores UI preferences and backup bookkeeping next to the
// collection.
type SettingRepository struct {
	store BlobStore
}

func NewSettingRepository(store BlobStore) *SettingRepository {
	return &SettingRepository{store: store}
}

// Theme returns the stored theme, defaulting to light.
func (r *SettingRepository) Theme(ctx context.Context) (model.Theme, error) {
	raw, err := r.store.Get(ctx, config.StorageKey.Theme)
	if errors.Is(err, ErrKeyNotFound) {
		return model.ThemeLight, nil
	}
	if err != nil {
		return "", err
	}
	if t := model.Theme(raw); t == model.ThemeDark {
		return t, nil
	}
	return model.ThemeLight, nil
}

func (r *SettingRepository) SetTheme(ctx context.Context, theme model.Theme) error {
	return r.store.Set(ctx, config.StorageKey.Theme, []byte(theme))
}

// LastBackup returns when a backup was last produced, or nil if never.
func (r *SettingRepository) LastBackup(ctx context.Context) (*time.Time, error) {
	return getTime(ctx, r.store, config.StorageKey.LastBackup)
}

func (r *SettingRepository) SetLastBackup(ctx context.Context, at time.Time) error {
	return setTime(ctx, r.store, config.StorageKey.LastBackup, at)
}
