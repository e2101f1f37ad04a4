package storage

import (
	"context"

	"nba-feature-lab/internal/domain"
)

// GameLogStore holds raw per-team-season game log tables, rows kept in
// their original order.
type GameLogStore interface {
	// InsertTable stores one table. Returns ErrDuplicateKey if (team_id, season) exists.
	InsertTable(ctx context.Context, t *domain.GameLogTable) error

	// GetTable retrieves a table with rows in original order. Returns ErrNotFound if not exists.
	GetTable(ctx context.Context, teamID int64, season string) (*domain.GameLogTable, error)

	// ListTeamSeasons returns every stored table key, ordered by (team_id, season) ASC.
	ListTeamSeasons(ctx context.Context) ([]domain.TeamSeason, error)
}

// FeatureStore holds the final feature table.
type FeatureStore interface {
	// InsertBulk adds multiple rows atomically. Fails entire batch on duplicate (game_id, team_id).
	InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error

	// GetByGameID retrieves both rows of a game, ordered by team_id ASC.
	GetByGameID(ctx context.Context, gameID string) ([]*domain.FeatureRow, error)

	// GetByTeam retrieves a team's rows, ordered by (game_date, game_id) ASC.
	GetByTeam(ctx context.Context, teamID int64) ([]*domain.FeatureRow, error)

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every row.
	DeleteAll(ctx context.Context) error

	// Replace swaps the stored rows for rows. On error the previous rows are
	// kept where the backend supports transactions.
	Replace(ctx context.Context, rows []*domain.FeatureRow) error
}

// TeamStore holds the static team lookup.
type TeamStore interface {
	// Upsert inserts or replaces teams by id.
	Upsert(ctx context.Context, teams []*domain.Team) error

	// GetByID retrieves a team. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id int64) (*domain.Team, error)

	// GetByAbbreviation retrieves a team by its code. Returns ErrNotFound if not exists.
	GetByAbbreviation(ctx context.Context, abbreviation string) (*domain.Team, error)

	// GetAll returns every team, ordered by id ASC.
	GetAll(ctx context.Context) ([]*domain.Team, error)
}
