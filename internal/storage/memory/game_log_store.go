package memory

import (
	"context"
	"sort"
	"sync"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// GameLogStore is an in-memory implementation of storage.GameLogStore.
type GameLogStore struct {
	mu   sync.RWMutex
	data map[domain.TeamSeason]*domain.GameLogTable
}

// NewGameLogStore creates a new in-memory game log store.
func NewGameLogStore() *GameLogStore {
	return &GameLogStore{
		data: make(map[domain.TeamSeason]*domain.GameLogTable),
	}
}

// InsertTable stores one table. Returns ErrDuplicateKey if (team_id, season) exists.
func (s *GameLogStore) InsertTable(_ context.Context, t *domain.GameLogTable) error {
	if t == nil || t.TeamID == 0 || t.Season == "" {
		return storage.ErrInvalidInput
	}
	for _, r := range t.Rows {
		if r == nil {
			return storage.ErrInvalidInput
		}
	}

	key := domain.TeamSeason{TeamID: t.TeamID, Season: t.Season}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[key] = t.Clone()
	return nil
}

// GetTable retrieves a table with rows in original order.
func (s *GameLogStore) GetTable(_ context.Context, teamID int64, season string) (*domain.GameLogTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[domain.TeamSeason{TeamID: teamID, Season: season}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return t.Clone(), nil
}

// ListTeamSeasons returns every stored table key, ordered by (team_id, season) ASC.
func (s *GameLogStore) ListTeamSeasons(_ context.Context) ([]domain.TeamSeason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]domain.TeamSeason, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].TeamID != keys[j].TeamID {
			return keys[i].TeamID < keys[j].TeamID
		}
		return keys[i].Season < keys[j].Season
	})
	return keys, nil
}

var _ storage.GameLogStore = (*GameLogStore)(nil)
