package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/repository"
)

type SettingService struct {
	settingRepo *repository.SettingRepository
	log         zerolog.Logger
}

func NewSettingService(settingRepo *repository.SettingRepository, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		log:         log.With().Str("component", "setting_service").Logger(),
	}
}

func (s *SettingService) Theme(ctx context.Context) (model.Theme, error) {
	theme, err := s.settingRepo.Theme(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get theme")
		return "", err
	}
	return theme, nil
}

func (s *SettingService) SetTheme(ctx context.Context, theme model.Theme) error {
	if err := s.settingRepo.SetTheme(ctx, theme); err != nil {
		s.log.Error().Err(err).Str("theme", string(theme)).Msg("failed to update theme")
		return err
	}
	return nil
}

func (s *SettingService) LastBackup(ctx context.Context) (*time.Time, error) {
	return s.settingRepo.LastBackup(ctx)
}
