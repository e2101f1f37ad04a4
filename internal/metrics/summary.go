// Package metrics computes distribution statistics over a built feature table.
package metrics

import (
	"math"
	"sort"

	"nba-feature-lab/internal/domain"
)

// ColumnStats describes the distribution of one feature column.
type ColumnStats struct {
	Column string
	Count  int // rows with a value
	Mean   float64
	Stddev float64 // sample standard deviation, 0 when Count < 2
	Min    float64
	P10    float64
	Median float64
	P90    float64
	Max    float64
}

// Summary describes a feature table.
type Summary struct {
	Rows        int
	Games       int
	WinRate     float64 // mean target over all rows
	HomeRows    int
	HomeWinRate float64 // mean target over home rows
	Columns     []ColumnStats
}

// Summarize computes per-column statistics for the feature columns of schema,
// in FeatureColumns order. rows may be in any order.
func Summarize(schema domain.FeatureSchema, rows []*domain.FeatureRow) *Summary {
	s := &Summary{Rows: len(rows)}
	if len(rows) == 0 {
		return s
	}

	games := make(map[string]struct{}, len(rows)/2)
	wins, homeWins := 0, 0
	for _, r := range rows {
		games[r.GameID] = struct{}{}
		wins += r.Target
		if r.IsHome {
			s.HomeRows++
			homeWins += r.Target
		}
	}
	s.Games = len(games)
	s.WinRate = float64(wins) / float64(len(rows))
	if s.HomeRows > 0 {
		s.HomeWinRate = float64(homeWins) / float64(s.HomeRows)
	}

	cols := schema.FeatureColumns()
	values := make([][]float64, len(cols))
	for _, r := range rows {
		values[0] = append(values[0], float64(r.Self.WinCount))
		values[1] = append(values[1], float64(r.Opponent.WinCount))
		for i, stat := range schema.Stats {
			if v, ok := r.Self.StatMeans[stat]; ok {
				values[2+2*i] = append(values[2+2*i], v)
			}
			if v, ok := r.Opponent.StatMeans[stat]; ok {
				values[3+2*i] = append(values[3+2*i], v)
			}
		}
	}
	for i, col := range cols {
		s.Columns = append(s.Columns, columnStats(col, values[i]))
	}
	return s
}

func columnStats(col string, values []float64) ColumnStats {
	c := ColumnStats{Column: col, Count: len(values)}
	if len(values) == 0 {
		return c
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	c.Mean = computeMean(sorted)
	c.Stddev = computeStddev(sorted, c.Mean)
	c.Min = sorted[0]
	c.Max = sorted[len(sorted)-1]
	c.P10 = computePercentile(sorted, 0.10)
	c.Median = computePercentile(sorted, 0.50)
	c.P90 = computePercentile(sorted, 0.90)
	return c
}

func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev returns the sample standard deviation.
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC; p is in [0, 1].
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
