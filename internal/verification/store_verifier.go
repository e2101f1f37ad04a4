package verification

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

// ErrNoStore is returned when a StoreVerifier has no feature store.
var ErrNoStore = errors.New("verification: feature store is required")

// StoreVerifier compares a persisted feature table with rebuilt rows.
type StoreVerifier struct {
	store  storage.FeatureStore
	logger *zap.Logger
}

// NewStoreVerifier creates a StoreVerifier. A nil logger disables logging.
func NewStoreVerifier(store storage.FeatureStore, logger *zap.Logger) *StoreVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreVerifier{store: store, logger: logger}
}

// Verify loads the stored rows of every team in rebuilt and compares them
// row by row. Stored rows of teams absent from rebuilt show up only as a
// StoredRows count above RebuiltRows.
func (v *StoreVerifier) Verify(ctx context.Context, rebuilt []*domain.FeatureRow) (*Report, error) {
	if v.store == nil {
		return nil, ErrNoStore
	}

	want := make(map[RowKey]*domain.FeatureRow, len(rebuilt))
	teams := make(map[int64]struct{})
	for _, r := range rebuilt {
		want[keyOf(r)] = r
		teams[r.TeamID] = struct{}{}
	}
	teamIDs := make([]int64, 0, len(teams))
	for id := range teams {
		teamIDs = append(teamIDs, id)
	}
	sort.Slice(teamIDs, func(i, j int) bool { return teamIDs[i] < teamIDs[j] })

	var stored []*domain.FeatureRow
	for _, id := range teamIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := v.store.GetByTeam(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load stored features for team %d: %w", id, err)
		}
		stored = append(stored, rows...)
	}
	total, err := v.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count stored features: %w", err)
	}

	report := &Report{RebuiltRows: len(rebuilt), StoredRows: total}
	seen := make(map[RowKey]struct{}, len(stored))
	for _, s := range stored {
		k := keyOf(s)
		seen[k] = struct{}{}
		r, ok := want[k]
		if !ok {
			report.ExtraRows = append(report.ExtraRows, k)
			continue
		}
		divergences := CompareFeatureRows(r, s)
		if len(divergences) == 0 {
			report.MatchedRows++
			continue
		}
		report.DivergentRows++
		report.Results = append(report.Results, RowResult{
			GameID:      k.GameID,
			TeamID:      k.TeamID,
			Divergences: divergences,
		})
	}
	for _, r := range rebuilt {
		if _, ok := seen[keyOf(r)]; !ok {
			report.MissingRows = append(report.MissingRows, keyOf(r))
		}
	}
	sortKeys(report.MissingRows)
	sortKeys(report.ExtraRows)
	report.Pairs = CheckPairs(stored)

	v.logger.Info("feature store verified",
		zap.Int("rebuilt_rows", report.RebuiltRows),
		zap.Int("stored_rows", report.StoredRows),
		zap.Int("matched", report.MatchedRows),
		zap.Int("divergent", report.DivergentRows),
		zap.Int("missing", len(report.MissingRows)),
		zap.Int("extra", len(report.ExtraRows)),
		zap.Int("pair_violations", len(report.Pairs)),
	)
	return report, nil
}

func sortKeys(keys []RowKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].GameID != keys[j].GameID {
			return keys[i].GameID < keys[j].GameID
		}
		return keys[i].TeamID < keys[j].TeamID
	})
}
