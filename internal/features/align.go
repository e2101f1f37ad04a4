package features

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"nba-feature-lab/internal/domain"
)

// AlignResult is the output of AlignOpponents.
type AlignResult struct {
	Rows             []*domain.FeatureRow
	Drops            DropCounts
	MissingOpponents []*MissingOpponentError
}

// AlignOpponents joins each rolling row with the other team's row of the
// same game and emits one feature row per team per game.
//
// Rows are dropped, and counted by reason, when:
//   - the game has no row for another team (missing_opponent)
//   - the game has more than one candidate opponent row (ambiguous_pairing)
//   - both rows claim the same result or the same venue (inconsistent_pairing)
//   - either side lacks a retained rolling mean (incomplete_history)
//
// If the missing-opponent share exceeds cfg.MaxMissingOpponentRatio the
// input is treated as systemically broken and an error wrapping
// ErrMissingOpponent is returned together with the partial result, so
// callers can still report which opponents were missing.
//
// Output is ordered by (GameDate, GameID, TeamID).
func AlignOpponents(cfg Config, rows []*RollingRow, logger *zap.Logger) (*AlignResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	retained := cfg.RetainedStats()

	byGame := make(map[string][]int, len(rows)/2+1)
	for i, r := range rows {
		if _, ok := byGame[r.Game.GameID]; !ok {
			byGame[r.Game.GameID] = make([]int, 0, 2)
		}
		byGame[r.Game.GameID] = append(byGame[r.Game.GameID], i)
	}

	result := &AlignResult{
		Rows:  make([]*domain.FeatureRow, 0, len(rows)),
		Drops: make(DropCounts),
	}

	for i, self := range rows {
		game := self.Game

		var partners []int
		for _, j := range byGame[game.GameID] {
			if j != i && rows[j].Game.TeamID != game.TeamID {
				partners = append(partners, j)
			}
		}

		switch {
		case len(partners) == 0:
			missing := &MissingOpponentError{
				GameID:       game.GameID,
				TeamID:       game.TeamID,
				Season:       game.Season,
				GameDate:     game.GameDate,
				OpponentCode: game.OpponentCode,
			}
			result.MissingOpponents = append(result.MissingOpponents, missing)
			result.Drops.Add(DropMissingOpponent)
			logger.Warn("opponent row missing",
				zap.String("game_id", game.GameID),
				zap.Int64("team_id", game.TeamID),
				zap.String("opponent", game.OpponentCode),
				zap.String("season", game.Season),
			)
			continue

		case len(partners) > 1:
			result.Drops.Add(DropAmbiguousPairing)
			logger.Warn("ambiguous opponent pairing",
				zap.String("game_id", game.GameID),
				zap.Int64("team_id", game.TeamID),
				zap.Int("candidates", len(partners)),
			)
			continue
		}

		opp := rows[partners[0]]

		if opp.Game.Result == game.Result || opp.Game.IsHome == game.IsHome {
			result.Drops.Add(DropInconsistentPairing)
			logger.Warn("inconsistent opponent pairing",
				zap.String("game_id", game.GameID),
				zap.Int64("team_id", game.TeamID),
				zap.Int64("opponent_team_id", opp.Game.TeamID),
				zap.String("result", game.Result.String()),
				zap.String("opponent_result", opp.Game.Result.String()),
			)
			continue
		}

		if !self.Features.Complete(retained) || !opp.Features.Complete(retained) {
			result.Drops.Add(DropIncompleteHistory)
			logger.Debug("incomplete rolling history",
				zap.String("game_id", game.GameID),
				zap.Int64("team_id", game.TeamID),
			)
			continue
		}

		result.Rows = append(result.Rows, &domain.FeatureRow{
			GameID:         game.GameID,
			TeamID:         game.TeamID,
			OpponentTeamID: opp.Game.TeamID,
			Season:         game.Season,
			GameDate:       game.GameDate,
			IsHome:         game.IsHome,
			Target:         game.Result.Target(),
			Self:           project(self.Features, retained),
			Opponent:       project(opp.Features, retained),
		})
	}

	missing := result.Drops[DropMissingOpponent]
	if ratio := float64(missing) / float64(len(rows)); ratio > cfg.MaxMissingOpponentRatio {
		return result, fmt.Errorf("%w: %d of %d rows (%.1f%%) have no opponent row, above the %.1f%% limit; check that every opponent season table is loaded",
			ErrMissingOpponent, missing, len(rows), ratio*100, cfg.MaxMissingOpponentRatio*100)
	}

	SortFeatureRows(result.Rows)
	return result, nil
}

// SortFeatureRows orders rows by (GameDate, GameID, TeamID).
func SortFeatureRows(rows []*domain.FeatureRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.GameDate.Equal(b.GameDate) {
			return a.GameDate.Before(b.GameDate)
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.TeamID < b.TeamID
	})
}

// project keeps only the retained stats of f.
func project(f domain.RollingFeatures, stats []domain.StatName) domain.TeamFeatures {
	means := make(map[domain.StatName]float64, len(stats))
	for _, s := range stats {
		means[s] = f.StatMeans[s]
	}
	return domain.TeamFeatures{WinCount: f.WinCount, StatMeans: means}
}
