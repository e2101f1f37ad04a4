package domain

import (
	"fmt"
	"time"
)

// RollingFeatures is the trailing state of a team before one of its games.
// It depends only on games strictly earlier in the team's timeline.
type RollingFeatures struct {
	WinCount  int                  // wins over the preceding win window (0 if none)
	WinGames  int                  // prior games the win window actually covered
	StatMeans map[StatName]float64 // mean per tracked stat, nil when StatGames == 0
	StatGames int                  // prior games the stat window actually covered
}

// Complete reports whether every given stat has a defined rolling mean.
func (r *RollingFeatures) Complete(stats []StatName) bool {
	if r == nil || r.StatGames == 0 || r.StatMeans == nil {
		return false
	}
	for _, s := range stats {
		if _, ok := r.StatMeans[s]; !ok {
			return false
		}
	}
	return true
}

// TeamFeatures is one side (self or opponent) of a FeatureRow.
type TeamFeatures struct {
	WinCount  int
	StatMeans map[StatName]float64
}

// FeatureRow is the final, leakage-free training row for one team in one game.
// Opponent carries the Self features of the other team in the same game.
type FeatureRow struct {
	GameID         string
	TeamID         int64
	OpponentTeamID int64
	Season         string
	GameDate       time.Time
	IsHome         bool
	Target         int // 1 win, 0 loss

	Self     TeamFeatures
	Opponent TeamFeatures
}

// Clone returns a deep copy of r.
func (r *FeatureRow) Clone() *FeatureRow {
	c := *r
	c.Self = r.Self.clone()
	c.Opponent = r.Opponent.clone()
	return &c
}

func (f TeamFeatures) clone() TeamFeatures {
	means := make(map[StatName]float64, len(f.StatMeans))
	for k, v := range f.StatMeans {
		means[k] = v
	}
	return TeamFeatures{WinCount: f.WinCount, StatMeans: means}
}

// OpponentSuffix distinguishes opponent feature columns from self columns.
const OpponentSuffix = "_opp"

// Identifying columns, in output order.
var FeatureIDColumns = []string{
	"game_id", "team_id", "opponent_team_id", "season", "game_date", "is_home", "target",
}

// FeatureSchema describes the feature columns produced for a given window
// configuration. Stats is the retained stat set (tracked minus redundant).
type FeatureSchema struct {
	WinWindow  int
	StatWindow int
	Stats      []StatName
}

// WinCountColumn returns e.g. "last10_win_count".
func (s FeatureSchema) WinCountColumn() string {
	return fmt.Sprintf("last%d_win_count", s.WinWindow)
}

// StatColumn returns e.g. "PTS_rolling5".
func (s FeatureSchema) StatColumn(stat StatName) string {
	return fmt.Sprintf("%s_rolling%d", stat, s.StatWindow)
}

// FeatureColumns returns the numeric feature column names:
// win count, opponent win count, then each stat followed by its opponent twin.
func (s FeatureSchema) FeatureColumns() []string {
	cols := make([]string, 0, 2+2*len(s.Stats))
	cols = append(cols, s.WinCountColumn(), s.WinCountColumn()+OpponentSuffix)
	for _, stat := range s.Stats {
		col := s.StatColumn(stat)
		cols = append(cols, col, col+OpponentSuffix)
	}
	return cols
}

// Columns returns identifying columns followed by feature columns.
func (s FeatureSchema) Columns() []string {
	cols := make([]string, 0, len(FeatureIDColumns)+2+2*len(s.Stats))
	cols = append(cols, FeatureIDColumns...)
	return append(cols, s.FeatureColumns()...)
}

// Vector returns the row's feature values in FeatureColumns order.
// A stat missing from either side yields an error rather than a zero.
func (s FeatureSchema) Vector(r *FeatureRow) ([]float64, error) {
	out := make([]float64, 0, 2+2*len(s.Stats))
	out = append(out, float64(r.Self.WinCount), float64(r.Opponent.WinCount))
	for _, stat := range s.Stats {
		self, ok := r.Self.StatMeans[stat]
		if !ok {
			return nil, fmt.Errorf("game %s team %d: missing %s", r.GameID, r.TeamID, s.StatColumn(stat))
		}
		opp, ok := r.Opponent.StatMeans[stat]
		if !ok {
			return nil, fmt.Errorf("game %s team %d: missing %s%s", r.GameID, r.TeamID, s.StatColumn(stat), OpponentSuffix)
		}
		out = append(out, self, opp)
	}
	return out, nil
}
