package features

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"nba-feature-lab/internal/domain"
)

// RollingRow is a game row with the team's rolling features at that game.
type RollingRow struct {
	Game     *domain.GameRow
	Features domain.RollingFeatures
}

// BuildRolling computes each row's rolling win count and stat means from
// strictly earlier games of the same team.
//
// For the i-th game (0-based) of a team's timeline:
//   - WinCount = sum of targets over positions [max(0, i-WinWindow), i-1]
//   - StatMeans[s] = mean of s over positions [max(0, i-StatWindow), i-1]
//
// At i == 0 the win count is 0 and StatMeans is nil. Shorter histories
// average over the games available; nothing is padded.
//
// Output is index-aligned with rows. Teams are processed concurrently, each
// writing only the output slots of its own rows.
func BuildRolling(ctx context.Context, cfg Config, rows []*domain.GameRow) ([]*RollingRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	timelines := groupByTeam(rows)
	out := make([]*RollingRow, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	for _, idx := range timelines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			timeline := make([]*domain.GameRow, len(idx))
			for k, i := range idx {
				timeline[k] = rows[i]
			}
			for k, f := range rollTimeline(cfg, timeline) {
				out[idx[k]] = &RollingRow{Game: timeline[k], Features: f}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build rolling features: %w", err)
	}
	return out, nil
}

// groupByTeam returns each team's row indices ordered by (GameDate, Seq).
// Inputs from the loader are already in that order; the stable sort keeps
// BuildRolling correct for callers that assemble rows by hand.
func groupByTeam(rows []*domain.GameRow) [][]int {
	byTeam := make(map[int64][]int)
	var order []int64
	for i, r := range rows {
		if _, ok := byTeam[r.TeamID]; !ok {
			order = append(order, r.TeamID)
		}
		byTeam[r.TeamID] = append(byTeam[r.TeamID], i)
	}

	out := make([][]int, 0, len(order))
	for _, team := range order {
		idx := byTeam[team]
		sort.SliceStable(idx, func(a, b int) bool {
			ra, rb := rows[idx[a]], rows[idx[b]]
			if !ra.GameDate.Equal(rb.GameDate) {
				return ra.GameDate.Before(rb.GameDate)
			}
			return ra.Seq < rb.Seq
		})
		out = append(out, idx)
	}
	return out
}

// rollTimeline computes rolling features for one team's chronological games.
func rollTimeline(cfg Config, timeline []*domain.GameRow) []domain.RollingFeatures {
	out := make([]domain.RollingFeatures, len(timeline))

	for i := range timeline {
		f := &out[i]

		lo := max(0, i-cfg.WinWindow)
		for j := lo; j < i; j++ {
			f.WinCount += timeline[j].Result.Target()
		}
		f.WinGames = i - lo

		lo = max(0, i-cfg.StatWindow)
		if i == lo {
			continue
		}
		f.StatGames = i - lo
		f.StatMeans = make(map[domain.StatName]float64, len(cfg.TrackedStats))
		for _, s := range cfg.TrackedStats {
			var sum float64
			var n int
			for j := lo; j < i; j++ {
				if v, ok := timeline[j].Stats[s]; ok {
					sum += v
					n++
				}
			}
			// A stat absent from every game in the window stays undefined.
			if n > 0 {
				f.StatMeans[s] = sum / float64(n)
			}
		}
	}
	return out
}
