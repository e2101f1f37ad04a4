package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

func testFeatureRow(gameID string, teamID, oppID int64, day int) *domain.FeatureRow {
	return &domain.FeatureRow{
		GameID:         gameID,
		TeamID:         teamID,
		OpponentTeamID: oppID,
		Season:         "2022-23",
		GameDate:       time.Date(2022, time.November, day, 0, 0, 0, 0, time.UTC),
		IsHome:         teamID < oppID,
		Target:         1,
		Self: domain.TeamFeatures{WinCount: 4, StatMeans: map[domain.StatName]float64{
			domain.StatPTS: 112.4, domain.StatFGPct: 0.471,
		}},
		Opponent: domain.TeamFeatures{WinCount: 7, StatMeans: map[domain.StatName]float64{
			domain.StatPTS: 108.0, domain.StatFGPct: 0.455,
		}},
	}
}

func TestFeatureStore_InsertBulkAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFeatureStore(pool)

	rows := []*domain.FeatureRow{
		testFeatureRow("0022200100", 1610612752, 1610612738, 5),
		testFeatureRow("0022200100", 1610612738, 1610612752, 5),
		testFeatureRow("0022200090", 1610612752, 1610612765, 3),
	}
	require.NoError(t, store.InsertBulk(ctx, rows))

	game, err := store.GetByGameID(ctx, "0022200100")
	require.NoError(t, err)
	require.Len(t, game, 2)
	assert.Equal(t, int64(1610612738), game[0].TeamID)
	assert.Equal(t, rows[1].GameDate, game[0].GameDate.UTC())
	assert.Equal(t, 7, game[0].Opponent.WinCount)
	assert.InDelta(t, 0.471, game[0].Self.StatMeans[domain.StatFGPct], 1e-9)

	team, err := store.GetByTeam(ctx, 1610612752)
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.Equal(t, "0022200090", team[0].GameID)
	assert.Equal(t, 1, team[0].Target)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFeatureStore_DuplicateFailsWholeBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFeatureStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.FeatureRow{testFeatureRow("g1", 1, 2, 1)}))

	err := store.InsertBulk(ctx, []*domain.FeatureRow{
		testFeatureRow("g1", 2, 1, 1),
		testFeatureRow("g1", 1, 2, 1),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.DeleteAll(ctx))
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFeatureStore_ReplaceRollsBackOnDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFeatureStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.FeatureRow{
		testFeatureRow("g1", 1, 2, 1),
		testFeatureRow("g1", 2, 1, 1),
	}))

	err := store.Replace(ctx, []*domain.FeatureRow{
		testFeatureRow("g2", 1, 3, 2),
		testFeatureRow("g2", 1, 3, 2),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	kept, err := store.GetByGameID(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, kept, 2)

	require.NoError(t, store.Replace(ctx, []*domain.FeatureRow{testFeatureRow("g2", 1, 3, 2)}))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
