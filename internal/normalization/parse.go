package normalization

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nba-feature-lab/internal/domain"
)

// GameDateLayout is the game log date format, e.g. "APR 10, 2022".
// Month names parse case-insensitively.
const GameDateLayout = "Jan 2, 2006"

const isoDateLayout = "2006-01-02"

var (
	errBadResult  = errors.New("result must be W or L")
	errBadMatchup = errors.New("matchup must be \"TEAM vs. OPP\" or \"TEAM @ OPP\"")
)

var matchupOpponent = regexp.MustCompile(`(?:vs\.|@)\s+([A-Z]+)\s*$`)

// ParseGameDate parses a GAME_DATE value. ISO dates are accepted as well,
// since exported tables sometimes carry them.
func ParseGameDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(GameDateLayout, s)
	if err == nil {
		return t, nil
	}
	if iso, isoErr := time.Parse(isoDateLayout, s); isoErr == nil {
		return iso, nil
	}
	return time.Time{}, err
}

// ParseResult maps "W" to a win and "L" to a loss.
func ParseResult(wl string) (domain.Result, error) {
	switch strings.ToUpper(strings.TrimSpace(wl)) {
	case "W":
		return domain.ResultWin, nil
	case "L":
		return domain.ResultLoss, nil
	}
	return 0, fmt.Errorf("%w: got %q", errBadResult, wl)
}

// ParseMatchup reads venue and opponent code from a MATCHUP value.
// "NYK vs. BOS" is a home game against BOS, "NYK @ BOS" an away game.
func ParseMatchup(matchup string) (isHome bool, opponent string, err error) {
	m := matchupOpponent.FindStringSubmatch(strings.TrimSpace(matchup))
	if m == nil {
		return false, "", fmt.Errorf("%w: got %q", errBadMatchup, matchup)
	}
	return strings.Contains(matchup, "vs."), m[1], nil
}
