package features

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMalformedDate marks a game date that does not match the game log format.
	ErrMalformedDate = errors.New("malformed game date")

	// ErrMissingOpponent marks a game with only one team row present.
	ErrMissingOpponent = errors.New("missing opponent row")

	// ErrEmptyInput is returned when no game log rows were supplied.
	ErrEmptyInput = errors.New("no game log rows to process")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid feature config")
)

// MalformedDateError reports a row whose GAME_DATE could not be parsed.
type MalformedDateError struct {
	TeamID int64
	GameID string
	Value  string
	Err    error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("team %d game %s: malformed game date %q: %v", e.TeamID, e.GameID, e.Value, e.Err)
}

// Is matches ErrMalformedDate.
func (e *MalformedDateError) Is(target error) bool {
	return target == ErrMalformedDate
}

func (e *MalformedDateError) Unwrap() error {
	return e.Err
}

// MissingOpponentError reports a game row whose opponent row is absent,
// usually because the opponent's season table was not loaded.
type MissingOpponentError struct {
	GameID       string
	TeamID       int64
	Season       string
	GameDate     time.Time
	OpponentCode string
}

func (e *MissingOpponentError) Error() string {
	return fmt.Sprintf("game %s (%s): team %d has no opponent row (opponent %q, season %s)",
		e.GameID, e.GameDate.Format("2006-01-02"), e.TeamID, e.OpponentCode, e.Season)
}

// Is matches ErrMissingOpponent.
func (e *MissingOpponentError) Is(target error) bool {
	return target == ErrMissingOpponent
}
