// Package verification checks a stored feature table against the invariants
// of a feature build and against a fresh rebuild of the same input.
package verification

import (
	"fmt"
	"math"
	"sort"

	"nba-feature-lab/internal/domain"
)

// FloatTolerance is the tolerance for float64 comparisons of stat means.
const FloatTolerance = 1e-7

// FieldDivergence represents a mismatch between stored and rebuilt values.
type FieldDivergence struct {
	Field    string      // column name
	Expected interface{} // rebuilt value
	Actual   interface{} // stored value
}

// RowResult lists the divergences of one (game_id, team_id) row.
type RowResult struct {
	GameID      string
	TeamID      int64
	Divergences []FieldDivergence
}

// PairViolation is a game whose two rows do not mirror each other.
type PairViolation struct {
	GameID string
	TeamID int64
	Reason string
}

// Report contains results for a whole feature table.
type Report struct {
	RebuiltRows   int             // rows produced by the rebuild
	StoredRows    int             // rows found in the store
	MatchedRows   int             // rows equal within tolerance
	DivergentRows int             // rows present on both sides with differences
	MissingRows   []RowKey        // rebuilt rows absent from the store
	ExtraRows     []RowKey        // stored rows the rebuild did not produce
	Results       []RowResult     // divergent rows only
	Pairs         []PairViolation // pairing violations among stored rows
}

// OK reports whether the stored table matches the rebuild exactly.
func (r *Report) OK() bool {
	return r.DivergentRows == 0 && len(r.MissingRows) == 0 && len(r.ExtraRows) == 0 &&
		len(r.Pairs) == 0 && r.StoredRows == r.RebuiltRows
}

// RowKey identifies a feature row.
type RowKey struct {
	GameID string
	TeamID int64
}

func (k RowKey) String() string {
	return fmt.Sprintf("%s/%d", k.GameID, k.TeamID)
}

func keyOf(r *domain.FeatureRow) RowKey {
	return RowKey{GameID: r.GameID, TeamID: r.TeamID}
}

// CompareFeatureRows compares a stored row with its rebuilt counterpart and
// returns divergences. Stat means use FloatTolerance; dates compare by day.
func CompareFeatureRows(rebuilt, stored *domain.FeatureRow) []FieldDivergence {
	var divergences []FieldDivergence
	add := func(field string, expected, actual interface{}) {
		divergences = append(divergences, FieldDivergence{Field: field, Expected: expected, Actual: actual})
	}

	if rebuilt.GameID != stored.GameID {
		add("game_id", rebuilt.GameID, stored.GameID)
	}
	if rebuilt.TeamID != stored.TeamID {
		add("team_id", rebuilt.TeamID, stored.TeamID)
	}
	if rebuilt.OpponentTeamID != stored.OpponentTeamID {
		add("opponent_team_id", rebuilt.OpponentTeamID, stored.OpponentTeamID)
	}
	if rebuilt.Season != stored.Season {
		add("season", rebuilt.Season, stored.Season)
	}
	if day(rebuilt) != day(stored) {
		add("game_date", day(rebuilt), day(stored))
	}
	if rebuilt.IsHome != stored.IsHome {
		add("is_home", rebuilt.IsHome, stored.IsHome)
	}
	if rebuilt.Target != stored.Target {
		add("target", rebuilt.Target, stored.Target)
	}

	divergences = append(divergences, compareSide("", rebuilt.Self, stored.Self)...)
	divergences = append(divergences, compareSide(domain.OpponentSuffix, rebuilt.Opponent, stored.Opponent)...)
	return divergences
}

func compareSide(suffix string, rebuilt, stored domain.TeamFeatures) []FieldDivergence {
	var divergences []FieldDivergence
	if rebuilt.WinCount != stored.WinCount {
		divergences = append(divergences, FieldDivergence{
			Field:    "win_count" + suffix,
			Expected: rebuilt.WinCount,
			Actual:   stored.WinCount,
		})
	}
	for _, stat := range statUnion(rebuilt.StatMeans, stored.StatMeans) {
		want, wok := rebuilt.StatMeans[stat]
		got, gok := stored.StatMeans[stat]
		if wok && gok && floatEquals(want, got) {
			continue
		}
		d := FieldDivergence{Field: string(stat) + suffix}
		if wok {
			d.Expected = want
		}
		if gok {
			d.Actual = got
		}
		divergences = append(divergences, d)
	}
	return divergences
}

// CheckPairs verifies that every game in rows has exactly two rows which
// point at each other, carry opposite targets and home flags, and whose
// opponent features equal the partner's own features.
func CheckPairs(rows []*domain.FeatureRow) []PairViolation {
	byGame := make(map[string][]*domain.FeatureRow)
	for _, r := range rows {
		byGame[r.GameID] = append(byGame[r.GameID], r)
	}
	gameIDs := make([]string, 0, len(byGame))
	for id := range byGame {
		gameIDs = append(gameIDs, id)
	}
	sort.Strings(gameIDs)

	var violations []PairViolation
	for _, id := range gameIDs {
		game := byGame[id]
		if len(game) != 2 {
			violations = append(violations, PairViolation{
				GameID: id,
				TeamID: game[0].TeamID,
				Reason: fmt.Sprintf("expected 2 rows, found %d", len(game)),
			})
			continue
		}
		a, b := game[0], game[1]
		if a.TeamID > b.TeamID {
			a, b = b, a
		}
		violations = append(violations, checkMirror(a, b)...)
		violations = append(violations, checkMirror(b, a)...)
		if a.Target == b.Target {
			violations = append(violations, PairViolation{GameID: id, TeamID: a.TeamID, Reason: "both rows have the same target"})
		}
		if a.IsHome == b.IsHome {
			violations = append(violations, PairViolation{GameID: id, TeamID: a.TeamID, Reason: "both rows have the same is_home"})
		}
	}
	return violations
}

func checkMirror(r, partner *domain.FeatureRow) []PairViolation {
	var violations []PairViolation
	if r.OpponentTeamID != partner.TeamID {
		violations = append(violations, PairViolation{
			GameID: r.GameID,
			TeamID: r.TeamID,
			Reason: fmt.Sprintf("opponent_team_id %d does not match partner %d", r.OpponentTeamID, partner.TeamID),
		})
	}
	for _, d := range compareSide(domain.OpponentSuffix, partner.Self, r.Opponent) {
		violations = append(violations, PairViolation{
			GameID: r.GameID,
			TeamID: r.TeamID,
			Reason: fmt.Sprintf("%s is %v, partner has %v", d.Field, d.Actual, d.Expected),
		})
	}
	return violations
}

func statUnion(a, b map[domain.StatName]float64) []domain.StatName {
	seen := make(map[domain.StatName]struct{}, len(a))
	out := make([]domain.StatName, 0, len(a))
	for _, m := range []map[domain.StatName]float64{a, b} {
		for s := range m {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func day(r *domain.FeatureRow) string {
	return r.GameDate.UTC().Format("2006-01-02")
}

// floatEquals compares two float64 values within FloatTolerance.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}
