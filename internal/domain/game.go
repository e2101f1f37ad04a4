package domain

import "time"

// Result is a team's outcome in a game.
type Result int8

const (
	ResultLoss Result = 0
	ResultWin  Result = 1
)

// String returns "W" or "L".
func (r Result) String() string {
	if r == ResultWin {
		return "W"
	}
	return "L"
}

// Target returns the model label: 1 for a win, 0 for a loss.
func (r Result) Target() int {
	return int(r)
}

// GameRow is one team's participation in one game after normalization.
// Every GameID is shared by exactly two rows with distinct TeamIDs,
// opposite Results and opposite IsHome values.
type GameRow struct {
	GameID       string
	TeamID       int64
	Season       string
	GameDate     time.Time // calendar date, UTC midnight
	IsHome       bool
	Result       Result
	OpponentCode string // e.g. "NYK"; informational only

	// Stats holds this game's own box score. It is the source of the
	// rolling means and is never copied into a FeatureRow.
	Stats map[StatName]float64

	// Seq is the position in ingestion order. It breaks GameDate ties so
	// that sorting is stable across stores.
	Seq int
}
