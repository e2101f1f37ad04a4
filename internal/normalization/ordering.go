package normalization

import (
	"sort"

	"nba-feature-lab/internal/domain"
)

// SortGameRows orders rows by (team_id ASC, game_date ASC, seq ASC).
// Seq is the ingestion position, so same-day rows keep their input order.
func SortGameRows(rows []*domain.GameRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return compareGameRows(rows[i], rows[j]) < 0
	})
}

// IsChronological reports whether rows are in SortGameRows order.
func IsChronological(rows []*domain.GameRow) bool {
	for i := 1; i < len(rows); i++ {
		if compareGameRows(rows[i-1], rows[i]) > 0 {
			return false
		}
	}
	return true
}

// sortTables orders tables by (team_id ASC, season ASC) so that the
// concatenated row order does not depend on the order tables were listed in.
func sortTables(tables []*domain.GameLogTable) {
	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].TeamID != tables[j].TeamID {
			return tables[i].TeamID < tables[j].TeamID
		}
		return tables[i].Season < tables[j].Season
	})
}

// compareGameRows returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
func compareGameRows(a, b *domain.GameRow) int {
	if a.TeamID != b.TeamID {
		if a.TeamID < b.TeamID {
			return -1
		}
		return 1
	}
	if !a.GameDate.Equal(b.GameDate) {
		if a.GameDate.Before(b.GameDate) {
			return -1
		}
		return 1
	}
	if a.Seq != b.Seq {
		if a.Seq < b.Seq {
			return -1
		}
		return 1
	}
	return 0
}
