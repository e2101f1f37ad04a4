package features

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"nba-feature-lab/internal/domain"
)

func buildAndAlign(t *testing.T, cfg Config, rows []*domain.GameRow) (*AlignResult, error) {
	t.Helper()
	rolled, err := BuildRolling(context.Background(), cfg, rows)
	require.NoError(t, err)
	return AlignOpponents(cfg, rolled, zap.NewNop())
}

func TestAlignOpponents_JoinsPartner(t *testing.T) {
	res, err := buildAndAlign(t, DefaultConfig(), league(4))
	require.NoError(t, err)

	// Day 1 rows have no history on either side.
	assert.Equal(t, 2, res.Drops[DropIncompleteHistory])
	require.Len(t, res.Rows, 6)

	byKey := make(map[[2]int64]*domain.FeatureRow)
	for _, r := range res.Rows {
		byKey[[2]int64{r.GameDate.Unix(), r.TeamID}] = r
	}

	for _, r := range res.Rows {
		assert.NotEqual(t, r.TeamID, r.OpponentTeamID)
		opp := byKey[[2]int64{r.GameDate.Unix(), r.OpponentTeamID}]
		require.NotNil(t, opp)
		assert.Equal(t, r.GameID, opp.GameID)
		assert.Equal(t, opp.Self, r.Opponent)
		assert.Equal(t, 1-r.Target, opp.Target)
		assert.NotEqual(t, r.IsHome, opp.IsHome)
	}
}

func TestAlignOpponents_OpponentValuesDifferFromSelf(t *testing.T) {
	res, err := buildAndAlign(t, DefaultConfig(), league(3))
	require.NoError(t, err)
	require.NotEmpty(t, res.Rows)

	for _, r := range res.Rows {
		if r.TeamID == 1 {
			assert.Less(t, r.Self.StatMeans[domain.StatPTS], 100.0)
			assert.Greater(t, r.Opponent.StatMeans[domain.StatPTS], 100.0)
		}
	}
}

func TestAlignOpponents_ProjectsRetainedStats(t *testing.T) {
	res, err := buildAndAlign(t, DefaultConfig(), league(3))
	require.NoError(t, err)
	require.NotEmpty(t, res.Rows)

	r := res.Rows[0]
	assert.Len(t, r.Self.StatMeans, 15)
	assert.NotContains(t, r.Self.StatMeans, domain.StatFGM)
	assert.NotContains(t, r.Opponent.StatMeans, domain.StatFTM)

	vec, err := DefaultConfig().Schema().Vector(r)
	require.NoError(t, err)
	assert.Len(t, vec, 2+2*15)
}

func TestAlignOpponents_OutputOrder(t *testing.T) {
	res, err := buildAndAlign(t, DefaultConfig(), league(6))
	require.NoError(t, err)

	for i := 1; i < len(res.Rows); i++ {
		a, b := res.Rows[i-1], res.Rows[i]
		if a.GameDate.Equal(b.GameDate) {
			assert.Less(t, a.TeamID, b.TeamID)
		} else {
			assert.True(t, a.GameDate.Before(b.GameDate))
		}
	}
}

func TestAlignOpponents_MissingOpponentWithinTolerance(t *testing.T) {
	rows := league(6)
	rows = append(rows, gameRow(1, "0022200099", 7, true, true, 7))

	cfg := DefaultConfig()
	cfg.MaxMissingOpponentRatio = 0.2

	core, logs := observer.New(zap.WarnLevel)
	rolled, err := BuildRolling(context.Background(), cfg, rows)
	require.NoError(t, err)
	res, err := AlignOpponents(cfg, rolled, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Drops[DropMissingOpponent])
	require.Len(t, res.MissingOpponents, 1)
	assert.Equal(t, "0022200099", res.MissingOpponents[0].GameID)
	assert.True(t, errors.Is(res.MissingOpponents[0], ErrMissingOpponent))
	assert.Equal(t, 1, logs.FilterMessage("opponent row missing").Len())

	for _, r := range res.Rows {
		assert.NotEqual(t, "0022200099", r.GameID)
	}
}

func TestAlignOpponents_MissingOpponentAborts(t *testing.T) {
	rows := league(5)
	// Drop every team 2 row: half the input loses its opponent.
	var kept []*domain.GameRow
	for _, r := range rows {
		if r.TeamID == 1 {
			kept = append(kept, r)
		}
	}

	res, err := buildAndAlign(t, DefaultConfig(), kept)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingOpponent))
	assert.Contains(t, err.Error(), "5 of 5 rows")

	// The partial result still names every unmatched row.
	require.NotNil(t, res)
	assert.Len(t, res.MissingOpponents, 5)
	assert.Equal(t, 5, res.Drops[DropMissingOpponent])
}

func TestAlignOpponents_InconsistentPairing(t *testing.T) {
	rows := league(4)
	// Both teams claim the day 3 win.
	for _, r := range rows {
		if r.GameDate.Equal(day0.AddDate(0, 0, 3)) {
			r.Result = domain.ResultWin
		}
	}

	res, err := buildAndAlign(t, DefaultConfig(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Drops[DropInconsistentPairing])
	for _, r := range res.Rows {
		assert.False(t, r.GameDate.Equal(day0.AddDate(0, 0, 3)))
	}
}

func TestAlignOpponents_AmbiguousPairing(t *testing.T) {
	rows := league(4)
	// A third team reuses the day 4 game id.
	rows = append(rows, gameRow(3, rows[6].GameID, 4, false, false, 50))

	cfg := DefaultConfig()
	cfg.MaxMissingOpponentRatio = 1
	res, err := buildAndAlign(t, cfg, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Drops[DropAmbiguousPairing])
}

func TestAlignOpponents_PermutationInvariant(t *testing.T) {
	want, err := buildAndAlign(t, DefaultConfig(), league(12))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		rows := league(12)
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

		got, err := buildAndAlign(t, DefaultConfig(), rows)
		require.NoError(t, err)
		assert.Equal(t, want.Rows, got.Rows)
		assert.Equal(t, want.Drops, got.Drops)
	}
}

func TestAlignOpponents_EmptyInput(t *testing.T) {
	_, err := AlignOpponents(DefaultConfig(), nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyInput))
}
