package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// TeamStore implements storage.TeamStore using SQLite.
type TeamStore struct {
	db *DB
}

// NewTeamStore creates a new TeamStore.
func NewTeamStore(db *DB) *TeamStore {
	return &TeamStore{db: db}
}

// Compile-time interface check.
var _ storage.TeamStore = (*TeamStore)(nil)

// Upsert inserts or replaces teams by id.
func (s *TeamStore) Upsert(ctx context.Context, teams []*domain.Team) error {
	for _, t := range teams {
		if t == nil || t.ID == 0 || t.Abbreviation == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, t := range teams {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO teams (id, abbreviation, full_name)
			VALUES (:id, :abbreviation, :full_name)
			ON CONFLICT (id) DO UPDATE
			SET abbreviation = excluded.abbreviation,
			    full_name = excluded.full_name
		`, t)
		if err != nil {
			return fmt.Errorf("upsert team %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a team.
func (s *TeamStore) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	return s.get(ctx, `SELECT id, abbreviation, full_name FROM teams WHERE id = ?`, id)
}

// GetByAbbreviation retrieves a team by its code, case-insensitively.
func (s *TeamStore) GetByAbbreviation(ctx context.Context, abbreviation string) (*domain.Team, error) {
	return s.get(ctx, `SELECT id, abbreviation, full_name FROM teams WHERE abbreviation = ? COLLATE NOCASE`, abbreviation)
}

// GetAll returns every team, ordered by id ASC.
func (s *TeamStore) GetAll(ctx context.Context) ([]*domain.Team, error) {
	var teams []*domain.Team
	if err := s.db.SelectContext(ctx, &teams, `SELECT id, abbreviation, full_name FROM teams ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("get all teams: %w", err)
	}
	return teams, nil
}

func (s *TeamStore) get(ctx context.Context, query string, arg any) (*domain.Team, error) {
	var t domain.Team
	if err := s.db.GetContext(ctx, &t, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &t, nil
}
