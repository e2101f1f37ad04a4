package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// GameLogStore implements storage.GameLogStore using PostgreSQL.
// Rows are keyed by (team_id, season, row_num) so raw duplicates survive.
type GameLogStore struct {
	pool *Pool
}

// NewGameLogStore creates a new GameLogStore.
func NewGameLogStore(pool *Pool) *GameLogStore {
	return &GameLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GameLogStore = (*GameLogStore)(nil)

const gameLogColumns = `game_id, game_date, matchup, wl, w, l, w_pct, min,
	fgm, fga, fg_pct, fg3m, fg3a, fg3_pct, ftm, fta, ft_pct,
	oreb, dreb, reb, ast, stl, blk, tov, pf, pts`

// InsertTable stores one table. Returns ErrDuplicateKey if (team_id, season) exists.
func (s *GameLogStore) InsertTable(ctx context.Context, t *domain.GameLogTable) error {
	if t == nil || t.TeamID == 0 || t.Season == "" {
		return storage.ErrInvalidInput
	}
	if len(t.Rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO game_logs (team_id, season, row_num, ` + gameLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29)
	`

	args := make([][]any, 0, len(t.Rows))
	for i, r := range t.Rows {
		if r == nil {
			return storage.ErrInvalidInput
		}
		row := []any{
			t.TeamID, t.Season, i,
			r.GameID, r.GameDate, r.Matchup, r.WL, r.W, r.L, r.WPct, r.Min,
		}
		// Stat columns follow domain.AllStats; blank cells are NULL.
		for _, stat := range domain.AllStats {
			v, ok := r.Stat(stat)
			if !ok {
				row = append(row, (*float64)(nil))
				continue
			}
			row = append(row, v)
		}
		args = append(args, row)
	}

	if err := s.pool.execBatch(ctx, query, args); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert game log table: %w", err)
	}
	return nil
}

// GetTable retrieves a table with rows in original order.
func (s *GameLogStore) GetTable(ctx context.Context, teamID int64, season string) (*domain.GameLogTable, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM game_logs
		WHERE team_id = $1 AND season = $2
		ORDER BY row_num ASC
	`

	rows, err := s.pool.Query(ctx, query, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("get game log table: %w", err)
	}
	defer rows.Close()

	logs, err := scanGameLogs(rows, teamID, season)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, storage.ErrNotFound
	}
	return &domain.GameLogTable{TeamID: teamID, Season: season, Rows: logs}, nil
}

// ListTeamSeasons returns every stored table key, ordered by (team_id, season) ASC.
func (s *GameLogStore) ListTeamSeasons(ctx context.Context) ([]domain.TeamSeason, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT team_id, season
		FROM game_logs
		ORDER BY team_id ASC, season ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list team seasons: %w", err)
	}
	defer rows.Close()

	var keys []domain.TeamSeason
	for rows.Next() {
		var k domain.TeamSeason
		if err := rows.Scan(&k.TeamID, &k.Season); err != nil {
			return nil, fmt.Errorf("scan team season: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// scanGameLogs scans multiple rows into a slice of GameLog.
func scanGameLogs(rows pgx.Rows, teamID int64, season string) ([]*domain.GameLog, error) {
	var logs []*domain.GameLog

	stats := make([]*float64, len(domain.AllStats))
	for rows.Next() {
		r := domain.GameLog{TeamID: teamID, Season: season}
		dest := []any{&r.GameID, &r.GameDate, &r.Matchup, &r.WL, &r.W, &r.L, &r.WPct, &r.Min}
		for i := range stats {
			stats[i] = nil
			dest = append(dest, &stats[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan game log: %w", err)
		}
		for i, stat := range domain.AllStats {
			r.SetStat(stat, domain.StatValueFromPtr(stats[i]))
		}
		logs = append(logs, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game logs: %w", err)
	}
	return logs, nil
}
