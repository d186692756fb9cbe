package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"virtualbarcamp/internal/domain"
)

type settingsService struct {
	repo           domain.SettingsRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewSettingsService returns a SettingsService backed by repo.
func NewSettingsService(repo domain.SettingsRepository, logger *slog.Logger, timeout time.Duration) domain.SettingsService {
	return &settingsService{
		repo:           repo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *settingsService) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get global settings: %w", err)
	}
	return settings, nil
}

// TransitionEventState moves the event lifecycle to the given state.
func (s *settingsService) TransitionEventState(ctx context.Context, to domain.EventState) (*domain.GlobalSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown event state %q", domain.ErrInvalidInput, to)
	}
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get global settings: %w", err)
	}
	from := current.EventState
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, from, to)
	}

	updated, err := s.repo.UpdateEventState(ctx, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Someone else changed the state between the read and the write.
			return nil, fmt.Errorf("%w: state is no longer %s", domain.ErrInvalidTransition, from)
		}
		return nil, fmt.Errorf("update event state: %w", err)
	}
	s.logger.InfoContext(ctx, "event state changed", "from", from, "to", to)
	return updated, nil
}
