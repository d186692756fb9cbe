package postgres

import (
	"context"
	"database/sql"
	"errors"

	"virtualbarcamp/internal/domain"
)

type settingsRepository struct {
	DB *sql.DB
}

// NewSettingsRepository returns a SettingsRepository over the single global_settings row.
func NewSettingsRepository(db *sql.DB) domain.SettingsRepository {
	return &settingsRepository{DB: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	query := `SELECT event_state, updated_at FROM global_settings WHERE id = 1`
	s := &domain.GlobalSettings{}
	err := r.DB.QueryRowContext(ctx, query).Scan(&s.EventState, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *settingsRepository) UpdateEventState(ctx context.Context, from, to domain.EventState) (*domain.GlobalSettings, error) {
	query := `
		UPDATE global_settings
		SET event_state = $1, updated_at = now()
		WHERE id = 1 AND event_state = $2
		RETURNING event_state, updated_at
	`
	s := &domain.GlobalSettings{}
	err := r.DB.QueryRowContext(ctx, query, to, from).Scan(&s.EventState, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
