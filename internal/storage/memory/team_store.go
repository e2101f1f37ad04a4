package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// TeamStore is an in-memory implementation of storage.TeamStore.
type TeamStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Team
}

// NewTeamStore creates a new in-memory team store.
func NewTeamStore() *TeamStore {
	return &TeamStore{
		data: make(map[int64]*domain.Team),
	}
}

// Upsert inserts or replaces teams by id.
func (s *TeamStore) Upsert(_ context.Context, teams []*domain.Team) error {
	for _, t := range teams {
		if t == nil || t.ID == 0 || t.Abbreviation == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range teams {
		teamCopy := *t
		s.data[t.ID] = &teamCopy
	}
	return nil
}

// GetByID retrieves a team.
func (s *TeamStore) GetByID(_ context.Context, id int64) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	teamCopy := *t
	return &teamCopy, nil
}

// GetByAbbreviation retrieves a team by its code, case-insensitively.
func (s *TeamStore) GetByAbbreviation(_ context.Context, abbreviation string) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.data {
		if strings.EqualFold(t.Abbreviation, abbreviation) {
			teamCopy := *t
			return &teamCopy, nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetAll returns every team, ordered by id ASC.
func (s *TeamStore) GetAll(_ context.Context) ([]*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Team, 0, len(s.data))
	for _, t := range s.data {
		teamCopy := *t
		result = append(result, &teamCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

var _ storage.TeamStore = (*TeamStore)(nil)
