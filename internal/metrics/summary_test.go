package metrics

import (
	"math"
	"testing"

	"nba-feature-lab/internal/domain"
)

func floatNear(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputePercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.10, 1.4},
		{0.50, 3},
		{0.90, 4.6},
		{1, 5},
	}
	for _, tt := range tests {
		if got := computePercentile(sorted, tt.p); !floatNear(got, tt.want) {
			t.Errorf("p%.0f: expected %f, got %f", tt.p*100, tt.want, got)
		}
	}
	if got := computePercentile([]float64{7}, 0.9); got != 7 {
		t.Errorf("single value: expected 7, got %f", got)
	}
	if got := computePercentile(nil, 0.5); got != 0 {
		t.Errorf("empty: expected 0, got %f", got)
	}
}

func TestComputeStddev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := computeMean(values)
	if mean != 5 {
		t.Fatalf("expected mean 5, got %f", mean)
	}
	// Sample variance = 32 / 7.
	if got := computeStddev(values, mean); !floatNear(got, math.Sqrt(32.0/7.0)) {
		t.Errorf("unexpected stddev %f", got)
	}
	if got := computeStddev([]float64{3}, 3); got != 0 {
		t.Errorf("expected 0 for one sample, got %f", got)
	}
}

func row(gameID string, team int64, home bool, target, wins, oppWins int, pts float64, oppPTS *float64) *domain.FeatureRow {
	r := &domain.FeatureRow{
		GameID: gameID,
		TeamID: team,
		IsHome: home,
		Target: target,
		Self: domain.TeamFeatures{
			WinCount:  wins,
			StatMeans: map[domain.StatName]float64{domain.StatPTS: pts},
		},
		Opponent: domain.TeamFeatures{
			WinCount:  oppWins,
			StatMeans: map[domain.StatName]float64{},
		},
	}
	if oppPTS != nil {
		r.Opponent.StatMeans[domain.StatPTS] = *oppPTS
	}
	return r
}

func TestSummarize(t *testing.T) {
	schema := domain.FeatureSchema{WinWindow: 10, StatWindow: 5, Stats: []domain.StatName{domain.StatPTS}}
	opp := func(v float64) *float64 { return &v }
	rows := []*domain.FeatureRow{
		row("g1", 1, true, 1, 4, 6, 110, opp(100)),
		row("g1", 2, false, 0, 6, 4, 100, opp(110)),
		row("g2", 1, false, 0, 5, 5, 120, nil),
		row("g2", 3, true, 1, 5, 5, 90, opp(120)),
	}

	s := Summarize(schema, rows)
	if s.Rows != 4 || s.Games != 2 {
		t.Fatalf("expected 4 rows in 2 games, got %d in %d", s.Rows, s.Games)
	}
	if s.WinRate != 0.5 {
		t.Errorf("expected win rate 0.5, got %f", s.WinRate)
	}
	if s.HomeRows != 2 || s.HomeWinRate != 1 {
		t.Errorf("expected 2 home rows winning 100%%, got %d at %f", s.HomeRows, s.HomeWinRate)
	}

	if len(s.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(s.Columns))
	}
	wins := s.Columns[0]
	if wins.Column != "last10_win_count" || wins.Count != 4 || wins.Mean != 5 || wins.Min != 4 || wins.Max != 6 {
		t.Errorf("unexpected win count stats: %+v", wins)
	}
	pts := s.Columns[2]
	if pts.Column != "PTS_rolling5" || pts.Median != 105 {
		t.Errorf("unexpected PTS stats: %+v", pts)
	}
	ptsOpp := s.Columns[3]
	if ptsOpp.Column != "PTS_rolling5_opp" || ptsOpp.Count != 3 || !floatNear(ptsOpp.Mean, 110) {
		t.Errorf("unexpected PTS_opp stats: %+v", ptsOpp)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(domain.FeatureSchema{WinWindow: 10, StatWindow: 5}, nil)
	if s.Rows != 0 || len(s.Columns) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}
