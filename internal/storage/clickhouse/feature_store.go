package clickhouse

import (
	"context"
	"fmt"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse.
// Rolling means are stored as Map(String, Float64) columns.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

const featureColumns = `game_id, team_id, opponent_team_id, season, game_date, is_home, target,
	win_count, opp_win_count, stat_means, opp_stat_means`

type featureKey struct {
	gameID string
	teamID int64
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate.
// MergeTree does not enforce keys, so duplicates are checked before insert.
func (s *FeatureStore) InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	seen, gameIDs, err := checkBatch(rows)
	if err != nil {
		return err
	}

	existing, err := s.existingKeys(ctx, gameIDs)
	if err != nil {
		return fmt.Errorf("check existing rows: %w", err)
	}
	for k := range seen {
		if _, ok := existing[k]; ok {
			return storage.ErrDuplicateKey
		}
	}

	return s.send(ctx, rows)
}

// Replace truncates the table and inserts rows. ClickHouse has no
// transactions, so rows are validated first; a failed send after the
// truncate still leaves the table empty.
func (s *FeatureStore) Replace(ctx context.Context, rows []*domain.FeatureRow) error {
	if _, _, err := checkBatch(rows); err != nil {
		return err
	}
	if err := s.DeleteAll(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return s.send(ctx, rows)
}

// checkBatch rejects invalid rows and keys repeated within rows.
func checkBatch(rows []*domain.FeatureRow) (map[featureKey]struct{}, []string, error) {
	seen := make(map[featureKey]struct{}, len(rows))
	gameIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		if r == nil || r.GameID == "" || r.TeamID == 0 {
			return nil, nil, storage.ErrInvalidInput
		}
		k := featureKey{r.GameID, r.TeamID}
		if _, exists := seen[k]; exists {
			return nil, nil, storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		gameIDs = append(gameIDs, r.GameID)
	}
	return seen, gameIDs, nil
}

func (s *FeatureStore) send(ctx context.Context, rows []*domain.FeatureRow) error {
	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO team_game_features (`+featureColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			r.GameID, r.TeamID, r.OpponentTeamID, r.Season, r.GameDate, r.IsHome, uint8(r.Target),
			uint16(r.Self.WinCount), uint16(r.Opponent.WinCount),
			toStringMap(r.Self.StatMeans), toStringMap(r.Opponent.StatMeans),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByGameID retrieves both rows of a game, ordered by team_id ASC.
func (s *FeatureStore) GetByGameID(ctx context.Context, gameID string) ([]*domain.FeatureRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+featureColumns+`
		FROM team_game_features
		WHERE game_id = ?
		ORDER BY team_id ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query by game id: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// GetByTeam retrieves a team's rows, ordered by (game_date, game_id) ASC.
func (s *FeatureStore) GetByTeam(ctx context.Context, teamID int64) ([]*domain.FeatureRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+featureColumns+`
		FROM team_game_features
		WHERE team_id = ?
		ORDER BY game_date ASC, game_id ASC
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("query by team: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// Count returns the number of stored rows.
func (s *FeatureStore) Count(ctx context.Context) (int, error) {
	var n uint64
	if err := s.conn.QueryRow(ctx, `SELECT count() FROM team_game_features`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return int(n), nil
}

// DeleteAll removes every row.
func (s *FeatureStore) DeleteAll(ctx context.Context) error {
	if err := s.conn.Exec(ctx, `TRUNCATE TABLE team_game_features`); err != nil {
		return fmt.Errorf("truncate features: %w", err)
	}
	return nil
}

// existingKeys returns the stored (game_id, team_id) pairs among gameIDs.
func (s *FeatureStore) existingKeys(ctx context.Context, gameIDs []string) (map[featureKey]struct{}, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT game_id, team_id FROM team_game_features
		WHERE has(?, game_id)
	`, gameIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[featureKey]struct{})
	for rows.Next() {
		var k featureKey
		if err := rows.Scan(&k.gameID, &k.teamID); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func toStringMap(m map[domain.StatName]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func fromStringMap(m map[string]float64) map[domain.StatName]float64 {
	out := make(map[domain.StatName]float64, len(m))
	for k, v := range m {
		out[domain.StatName(k)] = v
	}
	return out
}

// scanFeatureRows scans multiple rows.
func scanFeatureRows(rows chRows) ([]*domain.FeatureRow, error) {
	var result []*domain.FeatureRow

	for rows.Next() {
		var r domain.FeatureRow
		var target uint8
		var winCount, oppWinCount uint16
		var means, oppMeans map[string]float64

		err := rows.Scan(
			&r.GameID, &r.TeamID, &r.OpponentTeamID, &r.Season, &r.GameDate, &r.IsHome, &target,
			&winCount, &oppWinCount, &means, &oppMeans,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}

		r.Target = int(target)
		r.Self = domain.TeamFeatures{WinCount: int(winCount), StatMeans: fromStringMap(means)}
		r.Opponent = domain.TeamFeatures{WinCount: int(oppWinCount), StatMeans: fromStringMap(oppMeans)}
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature rows: %w", err)
	}
	return result, nil
}
