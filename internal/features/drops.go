package features

// DropReason names why a row did not reach the output table.
type DropReason string

const (
	DropMalformedDate       DropReason = "malformed_date"
	DropMalformedResult     DropReason = "malformed_result"
	DropMalformedMatchup    DropReason = "malformed_matchup"
	DropDuplicateRow        DropReason = "duplicate_row"
	DropMissingOpponent     DropReason = "missing_opponent"
	DropAmbiguousPairing    DropReason = "ambiguous_pairing"
	DropInconsistentPairing DropReason = "inconsistent_pairing"

	// DropIncompleteHistory is expected: a team's first game in the loaded
	// history has no rolling means, and neither does its opponent's row.
	DropIncompleteHistory DropReason = "incomplete_history"
)

// DropReasons lists every reason in pipeline order.
var DropReasons = []DropReason{
	DropMalformedDate,
	DropMalformedResult,
	DropMalformedMatchup,
	DropDuplicateRow,
	DropMissingOpponent,
	DropAmbiguousPairing,
	DropInconsistentPairing,
	DropIncompleteHistory,
}

// DropCounts tallies dropped rows per reason.
type DropCounts map[DropReason]int

// Add counts one dropped row.
func (d DropCounts) Add(reason DropReason) {
	d[reason]++
}

// Merge adds every count from other.
func (d DropCounts) Merge(other DropCounts) {
	for reason, n := range other {
		d[reason] += n
	}
}

// Total returns the number of dropped rows across all reasons.
func (d DropCounts) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}
