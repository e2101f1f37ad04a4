// Package teams is the static NBA franchise lookup: stats.nba.com team IDs,
// current abbreviations and full names.
package teams

import (
	"strings"

	"nba-feature-lab/internal/domain"
)

var all = []domain.Team{
	{ID: 1610612737, Abbreviation: "ATL", FullName: "Atlanta Hawks"},
	{ID: 1610612738, Abbreviation: "BOS", FullName: "Boston Celtics"},
	{ID: 1610612739, Abbreviation: "CLE", FullName: "Cleveland Cavaliers"},
	{ID: 1610612740, Abbreviation: "NOP", FullName: "New Orleans Pelicans"},
	{ID: 1610612741, Abbreviation: "CHI", FullName: "Chicago Bulls"},
	{ID: 1610612742, Abbreviation: "DAL", FullName: "Dallas Mavericks"},
	{ID: 1610612743, Abbreviation: "DEN", FullName: "Denver Nuggets"},
	{ID: 1610612744, Abbreviation: "GSW", FullName: "Golden State Warriors"},
	{ID: 1610612745, Abbreviation: "HOU", FullName: "Houston Rockets"},
	{ID: 1610612746, Abbreviation: "LAC", FullName: "Los Angeles Clippers"},
	{ID: 1610612747, Abbreviation: "LAL", FullName: "Los Angeles Lakers"},
	{ID: 1610612748, Abbreviation: "MIA", FullName: "Miami Heat"},
	{ID: 1610612749, Abbreviation: "MIL", FullName: "Milwaukee Bucks"},
	{ID: 1610612750, Abbreviation: "MIN", FullName: "Minnesota Timberwolves"},
	{ID: 1610612751, Abbreviation: "BKN", FullName: "Brooklyn Nets"},
	{ID: 1610612752, Abbreviation: "NYK", FullName: "New York Knicks"},
	{ID: 1610612753, Abbreviation: "ORL", FullName: "Orlando Magic"},
	{ID: 1610612754, Abbreviation: "IND", FullName: "Indiana Pacers"},
	{ID: 1610612755, Abbreviation: "PHI", FullName: "Philadelphia 76ers"},
	{ID: 1610612756, Abbreviation: "PHX", FullName: "Phoenix Suns"},
	{ID: 1610612757, Abbreviation: "POR", FullName: "Portland Trail Blazers"},
	{ID: 1610612758, Abbreviation: "SAC", FullName: "Sacramento Kings"},
	{ID: 1610612759, Abbreviation: "SAS", FullName: "San Antonio Spurs"},
	{ID: 1610612760, Abbreviation: "OKC", FullName: "Oklahoma City Thunder"},
	{ID: 1610612761, Abbreviation: "TOR", FullName: "Toronto Raptors"},
	{ID: 1610612762, Abbreviation: "UTA", FullName: "Utah Jazz"},
	{ID: 1610612763, Abbreviation: "MEM", FullName: "Memphis Grizzlies"},
	{ID: 1610612764, Abbreviation: "WAS", FullName: "Washington Wizards"},
	{ID: 1610612765, Abbreviation: "DET", FullName: "Detroit Pistons"},
	{ID: 1610612766, Abbreviation: "CHA", FullName: "Charlotte Hornets"},
}

// Former codes still found in older game logs.
var aliases = map[string]string{
	"NJN": "BKN",
	"NOH": "NOP",
	"NOK": "NOP",
	"SEA": "OKC",
	"VAN": "MEM",
	"CHH": "CHA",
	"PHO": "PHX",
	"GOS": "GSW",
	"SAN": "SAS",
	"UTH": "UTA",
}

var (
	byID   = make(map[int64]*domain.Team, len(all))
	byCode = make(map[string]*domain.Team, len(all))
	byName = make(map[string]*domain.Team, len(all))
)

func init() {
	for i := range all {
		t := &all[i]
		byID[t.ID] = t
		byCode[t.Abbreviation] = t
		byName[strings.ToLower(t.FullName)] = t
	}
}

// All returns a copy of every team, ordered by ID.
func All() []*domain.Team {
	out := make([]*domain.Team, len(all))
	for i := range all {
		t := all[i]
		out[i] = &t
	}
	return out
}

// ByID returns the team with the given stats.nba.com ID.
func ByID(id int64) (*domain.Team, bool) {
	t, ok := byID[id]
	if !ok {
		return nil, false
	}
	c := *t
	return &c, true
}

// ByAbbreviation resolves a matchup code, including former franchise codes.
func ByAbbreviation(code string) (*domain.Team, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if current, ok := aliases[code]; ok {
		code = current
	}
	t, ok := byCode[code]
	if !ok {
		return nil, false
	}
	c := *t
	return &c, true
}

// ByFullName resolves "New York Knicks" or "New_York_Knicks".
func ByFullName(name string) (*domain.Team, bool) {
	name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
	t, ok := byName[name]
	if !ok {
		return nil, false
	}
	c := *t
	return &c, true
}

// FileStem returns the game-log file prefix for a team, e.g. "New_York_Knicks".
func FileStem(t *domain.Team) string {
	return strings.ReplaceAll(t.FullName, " ", "_")
}
