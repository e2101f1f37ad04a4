package postgres

import (
	"context"
	"fmt"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// TeamStore implements storage.TeamStore using PostgreSQL.
type TeamStore struct {
	pool *Pool
}

// NewTeamStore creates a new TeamStore.
func NewTeamStore(pool *Pool) *TeamStore {
	return &TeamStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TeamStore = (*TeamStore)(nil)

// Upsert inserts or replaces teams by id.
func (s *TeamStore) Upsert(ctx context.Context, teams []*domain.Team) error {
	if len(teams) == 0 {
		return nil
	}

	args := make([][]any, 0, len(teams))
	for _, t := range teams {
		if t == nil || t.ID == 0 || t.Abbreviation == "" {
			return storage.ErrInvalidInput
		}
		args = append(args, []any{t.ID, t.Abbreviation, t.FullName})
	}

	err := s.pool.execBatch(ctx, `
		INSERT INTO teams (id, abbreviation, full_name, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET abbreviation = EXCLUDED.abbreviation,
		    full_name = EXCLUDED.full_name,
		    updated_at = NOW()
	`, args)
	if err != nil {
		return fmt.Errorf("upsert teams: %w", err)
	}
	return nil
}

// GetByID retrieves a team.
func (s *TeamStore) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, abbreviation, full_name FROM teams WHERE id = $1
	`, id)

	var t domain.Team
	if err := row.Scan(&t.ID, &t.Abbreviation, &t.FullName); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get team by id: %w", err)
	}
	return &t, nil
}

// GetByAbbreviation retrieves a team by its code, case-insensitively.
func (s *TeamStore) GetByAbbreviation(ctx context.Context, abbreviation string) (*domain.Team, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, abbreviation, full_name FROM teams WHERE UPPER(abbreviation) = UPPER($1)
	`, abbreviation)

	var t domain.Team
	if err := row.Scan(&t.ID, &t.Abbreviation, &t.FullName); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get team by abbreviation: %w", err)
	}
	return &t, nil
}

// GetAll returns every team, ordered by id ASC.
func (s *TeamStore) GetAll(ctx context.Context) ([]*domain.Team, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, abbreviation, full_name FROM teams ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("get all teams: %w", err)
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Abbreviation, &t.FullName); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}
