package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// GameLogStore implements storage.GameLogStore using SQLite.
type GameLogStore struct {
	db *DB
}

// NewGameLogStore creates a new GameLogStore.
func NewGameLogStore(db *DB) *GameLogStore {
	return &GameLogStore{db: db}
}

// Compile-time interface check.
var _ storage.GameLogStore = (*GameLogStore)(nil)

// gameLogRecord is a game_logs row; GameLog plus the storage-only row number.
type gameLogRecord struct {
	domain.GameLog
	RowNum int `db:"row_num"`
}

const insertGameLog = `
	INSERT INTO game_logs (
		team_id, season, row_num, game_id, game_date, matchup, wl, w, l, w_pct, min,
		fgm, fga, fg_pct, fg3m, fg3a, fg3_pct, ftm, fta, ft_pct,
		oreb, dreb, reb, ast, stl, blk, tov, pf, pts
	) VALUES (
		:team_id, :season, :row_num, :game_id, :game_date, :matchup, :wl, :w, :l, :w_pct, :min,
		:fgm, :fga, :fg_pct, :fg3m, :fg3a, :fg3_pct, :ftm, :fta, :ft_pct,
		:oreb, :dreb, :reb, :ast, :stl, :blk, :tov, :pf, :pts
	)
`

// InsertTable stores one table. Returns ErrDuplicateKey if (team_id, season) exists.
func (s *GameLogStore) InsertTable(ctx context.Context, t *domain.GameLogTable) error {
	if t == nil || t.TeamID == 0 || t.Season == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, insertGameLog)
	if err != nil {
		return fmt.Errorf("prepare game log insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Rows {
		if r == nil {
			return storage.ErrInvalidInput
		}
		rec := gameLogRecord{GameLog: *r, RowNum: i}
		rec.TeamID = t.TeamID
		rec.Season = t.Season
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert game log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetTable retrieves a table with rows in original order.
func (s *GameLogStore) GetTable(ctx context.Context, teamID int64, season string) (*domain.GameLogTable, error) {
	var recs []gameLogRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM game_logs
		WHERE team_id = ? AND season = ?
		ORDER BY row_num ASC
	`, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("get game log table: %w", err)
	}
	if len(recs) == 0 {
		return nil, storage.ErrNotFound
	}

	t := &domain.GameLogTable{TeamID: teamID, Season: season, Rows: make([]*domain.GameLog, len(recs))}
	for i := range recs {
		log := recs[i].GameLog
		t.Rows[i] = &log
	}
	return t, nil
}

// ListTeamSeasons returns every stored table key, ordered by (team_id, season) ASC.
func (s *GameLogStore) ListTeamSeasons(ctx context.Context) ([]domain.TeamSeason, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT team_id, season FROM game_logs
		ORDER BY team_id ASC, season ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list team seasons: %w", err)
	}
	defer rows.Close()

	return scanTeamSeasons(rows)
}

func scanTeamSeasons(rows *sql.Rows) ([]domain.TeamSeason, error) {
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
