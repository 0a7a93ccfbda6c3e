package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/repository"
)

// ThemeService stores the dark/light preference
type ThemeService interface {
	Get(ctx context.Context) (domain.Theme, error)
	Set(ctx context.Context, theme string) (domain.Theme, error)
	Toggle(ctx context.Context) (domain.Theme, error)
}

type themeService struct {
	themeRepo repository.ThemeRepository
	logger    *slog.Logger
}

// NewThemeService creates a new theme service
func NewThemeService(themeRepo repository.ThemeRepository, logger *slog.Logger) ThemeService {
	return &themeService{
		themeRepo: themeRepo,
		logger:    logger,
	}
}

// Get returns the stored theme, falling back to dark when unset or unreadable
func (s *themeService) Get(ctx context.Context) (domain.Theme, error) {
	theme, ok, err := s.themeRepo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidData) {
			s.logger.Warn("ignoring unreadable theme", "err", err)
			return domain.ThemeDark, nil
		}
		return "", err
	}
	if !ok {
		return domain.ThemeDark, nil
	}
	if parsed, err := domain.ParseTheme(string(theme)); err == nil {
		return parsed, nil
	}
	return domain.ThemeDark, nil
}

func (s *themeService) Set(ctx context.Context, theme string) (domain.Theme, error) {
	parsed, err := domain.ParseTheme(theme)
	if err != nil {
		return "", err
	}
	if err := s.themeRepo.Save(ctx, parsed); err != nil {
		return "", err
	}
	return parsed, nil
}

func (s *themeService) Toggle(ctx context.Context) (domain.Theme, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	next := domain.ThemeLight
	if current == domain.ThemeLight {
		next = domain.ThemeDark
	}
	return s.Set(ctx, string(next))
}
