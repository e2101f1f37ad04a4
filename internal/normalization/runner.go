package normalization

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// Filter selects which stored tables to load. Empty fields match everything.
type Filter struct {
	Seasons []string
	TeamIDs []int64
}

func (f Filter) match(k domain.TeamSeason) bool {
	if len(f.Seasons) > 0 && !contains(f.Seasons, k.Season) {
		return false
	}
	if len(f.TeamIDs) > 0 && !contains(f.TeamIDs, k.TeamID) {
		return false
	}
	return true
}

func contains[T comparable](xs []T, x T) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// ReadTables reads the tables selected by filter from store.
func ReadTables(ctx context.Context, store storage.GameLogStore, filter Filter) ([]*domain.GameLogTable, error) {
	keys, err := store.ListTeamSeasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list game log tables: %w", err)
	}

	var tables []*domain.GameLogTable
	for _, k := range keys {
		if !filter.match(k) {
			continue
		}
		t, err := store.GetTable(ctx, k.TeamID, k.Season)
		if err != nil {
			return nil, fmt.Errorf("read team %d season %s: %w", k.TeamID, k.Season, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// LoadStore reads the selected tables from store and normalizes them.
func LoadStore(ctx context.Context, store storage.GameLogStore, filter Filter, logger *zap.Logger) (*LoadResult, error) {
	tables, err := ReadTables(ctx, store, filter)
	if err != nil {
		return nil, err
	}
	return Load(tables, logger)
}
