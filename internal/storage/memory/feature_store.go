package memory

import (
	"context"
	"sort"
	"sync"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

type featureKey struct {
	gameID string
	teamID int64
}

// FeatureStore is an in-memory implementation of storage.FeatureStore.
type FeatureStore struct {
	mu   sync.RWMutex
	data map[featureKey]*domain.FeatureRow
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{
		data: make(map[featureKey]*domain.FeatureRow),
	}
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate.
func (s *FeatureStore) InsertBulk(_ context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkBatch(s.data, rows); err != nil {
		return err
	}
	for _, r := range rows {
		s.data[featureKey{gameID: r.GameID, teamID: r.TeamID}] = r.Clone()
	}
	return nil
}

// Replace swaps the stored rows for rows. On error nothing changes.
func (s *FeatureStore) Replace(_ context.Context, rows []*domain.FeatureRow) error {
	if err := checkBatch(nil, rows); err != nil {
		return err
	}
	data := make(map[featureKey]*domain.FeatureRow, len(rows))
	for _, r := range rows {
		data[featureKey{gameID: r.GameID, teamID: r.TeamID}] = r.Clone()
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// checkBatch rejects invalid rows and keys repeated in rows or already in existing.
func checkBatch(existing map[featureKey]*domain.FeatureRow, rows []*domain.FeatureRow) error {
	batchKeys := make(map[featureKey]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.GameID == "" || r.TeamID == 0 {
			return storage.ErrInvalidInput
		}
		key := featureKey{gameID: r.GameID, teamID: r.TeamID}
		if _, exists := existing[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}
	return nil
}

// GetByGameID retrieves both rows of a game, ordered by team_id ASC.
func (s *FeatureStore) GetByGameID(_ context.Context, gameID string) ([]*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRow
	for _, r := range s.data {
		if r.GameID == gameID {
			result = append(result, r.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TeamID < result[j].TeamID
	})
	return result, nil
}

// GetByTeam retrieves a team's rows, ordered by (game_date, game_id) ASC.
func (s *FeatureStore) GetByTeam(_ context.Context, teamID int64) ([]*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRow
	for _, r := range s.data {
		if r.TeamID == teamID {
			result = append(result, r.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].GameDate.Equal(result[j].GameDate) {
			return result[i].GameDate.Before(result[j].GameDate)
		}
		return result[i].GameID < result[j].GameID
	})
	return result, nil
}

// Count returns the number of stored rows.
func (s *FeatureStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// DeleteAll removes every row.
func (s *FeatureStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[featureKey]*domain.FeatureRow)
	return nil
}

var _ storage.FeatureStore = (*FeatureStore)(nil)
