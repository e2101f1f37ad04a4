package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using SQLite.
// Rolling means are stored as JSON text keyed by stat name.
type FeatureStore struct {
	db *DB
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(db *DB) *FeatureStore {
	return &FeatureStore{db: db}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

const dateLayout = "2006-01-02"

type featureRecord struct {
	GameID         string `db:"game_id"`
	TeamID         int64  `db:"team_id"`
	OpponentTeamID int64  `db:"opponent_team_id"`
	Season         string `db:"season"`
	GameDate       string `db:"game_date"`
	IsHome         bool   `db:"is_home"`
	Target         int    `db:"target"`
	WinCount       int    `db:"win_count"`
	OppWinCount    int    `db:"opp_win_count"`
	StatMeans      string `db:"stat_means"`
	OppStatMeans   string `db:"opp_stat_means"`
}

func toRecord(r *domain.FeatureRow) (*featureRecord, error) {
	self, err := json.Marshal(r.Self.StatMeans)
	if err != nil {
		return nil, fmt.Errorf("encode stat means: %w", err)
	}
	opp, err := json.Marshal(r.Opponent.StatMeans)
	if err != nil {
		return nil, fmt.Errorf("encode opponent stat means: %w", err)
	}
	return &featureRecord{
		GameID:         r.GameID,
		TeamID:         r.TeamID,
		OpponentTeamID: r.OpponentTeamID,
		Season:         r.Season,
		GameDate:       r.GameDate.Format(dateLayout),
		IsHome:         r.IsHome,
		Target:         r.Target,
		WinCount:       r.Self.WinCount,
		OppWinCount:    r.Opponent.WinCount,
		StatMeans:      string(self),
		OppStatMeans:   string(opp),
	}, nil
}

func (rec *featureRecord) toRow() (*domain.FeatureRow, error) {
	date, err := time.Parse(dateLayout, rec.GameDate)
	if err != nil {
		return nil, fmt.Errorf("parse game date %q: %w", rec.GameDate, err)
	}
	r := &domain.FeatureRow{
		GameID:         rec.GameID,
		TeamID:         rec.TeamID,
		OpponentTeamID: rec.OpponentTeamID,
		Season:         rec.Season,
		GameDate:       date,
		IsHome:         rec.IsHome,
		Target:         rec.Target,
		Self:           domain.TeamFeatures{WinCount: rec.WinCount},
		Opponent:       domain.TeamFeatures{WinCount: rec.OppWinCount},
	}
	if err := json.Unmarshal([]byte(rec.StatMeans), &r.Self.StatMeans); err != nil {
		return nil, fmt.Errorf("decode stat means: %w", err)
	}
	if err := json.Unmarshal([]byte(rec.OppStatMeans), &r.Opponent.StatMeans); err != nil {
		return nil, fmt.Errorf("decode opponent stat means: %w", err)
	}
	return r, nil
}

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
func (s *FeatureStore) InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertFeatures(ctx, tx, rows)
	})
}

// Replace deletes every row and inserts rows in one transaction, so a
// failed insert leaves the previous rows in place.
func (s *FeatureStore) Replace(ctx context.Context, rows []*domain.FeatureRow) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM team_game_features`); err != nil {
			return fmt.Errorf("delete features: %w", err)
		}
		return insertFeatures(ctx, tx, rows)
	})
}

func (s *FeatureStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertFeatures(ctx context.Context, tx *sqlx.Tx, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO team_game_features (
			game_id, team_id, opponent_team_id, season, game_date, is_home, target,
			win_count, opp_win_count, stat_means, opp_stat_means
		) VALUES (
			:game_id, :team_id, :opponent_team_id, :season, :game_date, :is_home, :target,
			:win_count, :opp_win_count, :stat_means, :opp_stat_means
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare feature insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if r == nil || r.GameID == "" || r.TeamID == 0 {
			return storage.ErrInvalidInput
		}
		rec, err := toRecord(r)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert feature row: %w", err)
		}
	}
	return nil
}

// GetByGameID retrieves both rows of a game, ordered by team_id ASC.
func (s *FeatureStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.FeatureRow, error) {
	return s.query(ctx, `
		SELECT * FROM team_game_features WHERE game_id = ? ORDER BY team_id ASC
	`, gameID)
}

// GetByTeam retrieves a team's rows, ordered by (game_date, game_id) ASC.
func (s *FeatureStore) GetByTeam(ctx context.Context, teamID int64) ([]*domain.FeatureRow, error) {
	return s.query(ctx, `
		SELECT * FROM team_game_features WHERE team_id = ? ORDER BY game_date ASC, game_id ASC
	`, teamID)
}

// Count returns the number of stored rows.
func (s *FeatureStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM team_game_features`); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return n, nil
}

// DeleteAll removes every row.
func (s *FeatureStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM team_game_features`); err != nil {
		return fmt.Errorf("delete features: %w", err)
	}
	return nil
}

func (s *FeatureStore) query(ctx context.Context, query string, args ...any) ([]*domain.FeatureRow, error) {
	var recs []featureRecord
	if err := s.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}

	out := make([]*domain.FeatureRow, 0, len(recs))
	for i := range recs {
		r, err := recs[i].toRow()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
