package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/forms"
)

type SettingsGateway interface {
	GetAdminProfile(ctx context.Context, token string) (models.AdminProfile, error)
	UpdateAdminSettings(ctx context.Context, token string, update models.SettingsUpdate) (models.AdminProfile, error)
	GetAnalytics(ctx context.Context, token string) (models.Analytics, error)
}

type SettingsService struct {
	log     *slog.Logger
	gateway SettingsGateway
}

func NewSettingsService(log *slog.Logger, gateway SettingsGateway) *SettingsService {
	return &SettingsService{log: log, gateway: gateway}
}

// Load возвращает профиль администратора и форму, заполненную из него
func (s *SettingsService) Load(ctx context.Context, token string) (models.AdminProfile, forms.SettingsForm, error) {
	const op = "service.SettingsService.Load"

	profile, err := s.gateway.GetAdminProfile(ctx, token)
	if err != nil {
		s.log.Error("failed to load profile", slog.String("op", op), slog.Any("error", err))
		return models.AdminProfile{}, forms.SettingsForm{}, fmt.Errorf("%s: %w", op, err)
	}
	return profile, forms.NewSettingsForm(profile), nil
}

// Save проверяет форму и отправляет изменения; пустой пароль не отправляется
func (s *SettingsService) Save(ctx context.Context, token string, form forms.SettingsForm) (models.AdminProfile, error) {
	const op = "service.SettingsService.Save"
	logger := s.log.With(slog.String("op", op))

	update, err := form.Update()
	if err != nil {
		return models.AdminProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := s.gateway.UpdateAdminSettings(ctx, token, update)
	if err != nil {
		logger.Error("failed to save settings", slog.Any("error", err))
		return models.AdminProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("settings saved", slog.Bool("passwordChanged", update.Password != nil))
	return profile, nil
}

// Analytics - данные для главной панели
func (s *SettingsService) Analytics(ctx context.Context, token string) (models.Analytics, error) {
	const op = "service.SettingsService.Analytics"

	a, err := s.gateway.GetAnalytics(ctx, token)
	if err != nil {
		s.log.Error("failed to load analytics", slog.String("op", op), slog.Any("error", err))
		return models.Analytics{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
