package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using PostgreSQL.
// Rolling means are stored as JSONB keyed by stat name, so the table
// does not change shape with the tracked stat set.
type FeatureStore struct {
	pool *Pool
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(pool *Pool) *FeatureStore {
	return &FeatureStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

const featureColumns = `game_id, team_id, opponent_team_id, season, game_date, is_home, target,
	win_count, opp_win_count, stat_means, opp_stat_means`

const insertFeature = `
	INSERT INTO team_game_features (` + featureColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
func (s *FeatureStore) InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}
	args, err := featureArgs(rows)
	if err != nil {
		return err
	}
	if err := s.pool.execBatch(ctx, insertFeature, args); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert feature rows: %w", err)
	}
	return nil
}

// Replace truncates the table and inserts rows in one transaction, so a
// failed insert leaves the previous rows in place.
func (s *FeatureStore) Replace(ctx context.Context, rows []*domain.FeatureRow) error {
	args, err := featureArgs(rows)
	if err != nil {
		return err
	}
	if err := s.pool.execBatchAfter(ctx, `TRUNCATE team_game_features`, insertFeature, args); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("replace feature rows: %w", err)
	}
	return nil
}

func featureArgs(rows []*domain.FeatureRow) ([][]any, error) {
	args := make([][]any, 0, len(rows))
	for _, r := range rows {
		if r == nil || r.GameID == "" || r.TeamID == 0 {
			return nil, storage.ErrInvalidInput
		}
		args = append(args, []any{
			r.GameID, r.TeamID, r.OpponentTeamID, r.Season, r.GameDate, r.IsHome, r.Target,
			r.Self.WinCount, r.Opponent.WinCount, r.Self.StatMeans, r.Opponent.StatMeans,
		})
	}
	return args, nil
}

// GetByGameID retrieves both rows of a game, ordered by team_id ASC.
func (s *FeatureStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.FeatureRow, error) {
	query := `
		SELECT ` + featureColumns + `
		FROM team_game_features
		WHERE game_id = $1
		ORDER BY team_id ASC
	`

	rows, err := s.pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("get features by game id: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// GetByTeam retrieves a team's rows, ordered by (game_date, game_id) ASC.
func (s *FeatureStore) GetByTeam(ctx context.Context, teamID int64) ([]*domain.FeatureRow, error) {
	query := `
		SELECT ` + featureColumns + `
		FROM team_game_features
		WHERE team_id = $1
		ORDER BY game_date ASC, game_id ASC
	`

	rows, err := s.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("get features by team: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// Count returns the number of stored rows.
func (s *FeatureStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM team_game_features`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return n, nil
}

// DeleteAll removes every row.
func (s *FeatureStore) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE team_game_features`); err != nil {
		return fmt.Errorf("truncate features: %w", err)
	}
	return nil
}

// scanFeatureRows scans multiple rows into a slice of FeatureRow.
func scanFeatureRows(rows pgx.Rows) ([]*domain.FeatureRow, error) {
	var result []*domain.FeatureRow

	for rows.Next() {
		var r domain.FeatureRow
		var target int16
		err := rows.Scan(
			&r.GameID, &r.TeamID, &r.OpponentTeamID, &r.Season, &r.GameDate, &r.IsHome, &target,
			&r.Self.WinCount, &r.Opponent.WinCount, &r.Self.StatMeans, &r.Opponent.StatMeans,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}
		r.Target = int(target)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature rows: %w", err)
	}
	return result, nil
}
