package domain

// GameLog is one raw row of an NBA team game log: a single team's box score
// for a single game. Column names follow the stats.nba.com TeamGameLog
// result set. W, L and W_PCT are the team's season record after the game and
// are never used as features.
type GameLog struct {
	TeamID   int64  `csv:"Team_ID" db:"team_id"`
	GameID   string `csv:"Game_ID" db:"game_id"`
	GameDate string `csv:"GAME_DATE" db:"game_date"` // e.g. "APR 10, 2022"
	Matchup  string `csv:"MATCHUP" db:"matchup"`     // "BOS vs. NYK" (home) or "BOS @ NYK" (away)
	WL       string `csv:"WL" db:"wl"`               // "W" or "L"

	W    int     `csv:"W" db:"w"`
	L    int     `csv:"L" db:"l"`
	WPct float64 `csv:"W_PCT" db:"w_pct"`
	Min  int     `csv:"MIN" db:"min"`

	FGM   StatValue `csv:"FGM" db:"fgm"`
	FGA   StatValue `csv:"FGA" db:"fga"`
	FGPct StatValue `csv:"FG_PCT" db:"fg_pct"`
	FG3M  StatValue `csv:"FG3M" db:"fg3m"`
	FG3A  StatValue `csv:"FG3A" db:"fg3a"`
	FG3Pc StatValue `csv:"FG3_PCT" db:"fg3_pct"`
	FTM   StatValue `csv:"FTM" db:"ftm"`
	FTA   StatValue `csv:"FTA" db:"fta"`
	FTPct StatValue `csv:"FT_PCT" db:"ft_pct"`
	OREB  StatValue `csv:"OREB" db:"oreb"`
	DREB  StatValue `csv:"DREB" db:"dreb"`
	REB   StatValue `csv:"REB" db:"reb"`
	AST   StatValue `csv:"AST" db:"ast"`
	STL   StatValue `csv:"STL" db:"stl"`
	BLK   StatValue `csv:"BLK" db:"blk"`
	TOV   StatValue `csv:"TOV" db:"tov"`
	PF    StatValue `csv:"PF" db:"pf"`
	PTS   StatValue `csv:"PTS" db:"pts"`

	// Season is not part of the TeamGameLog result set; it comes from the
	// table the row was loaded from (e.g. "2023-24").
	Season string `csv:"-" db:"season"`
}

// Stat returns the value of a box-score column. ok is false for unknown
// columns and for blank cells.
func (g *GameLog) Stat(name StatName) (float64, bool) {
	p := g.statField(name)
	if p == nil || !p.Present() {
		return 0, false
	}
	return float64(*p), true
}

// SetStat assigns a box-score column. Returns false for unknown columns.
func (g *GameLog) SetStat(name StatName, v StatValue) bool {
	p := g.statField(name)
	if p == nil {
		return false
	}
	*p = v
	return true
}

func (g *GameLog) statField(name StatName) *StatValue {
	switch name {
	case StatFGM:
		return &g.FGM
	case StatFGA:
		return &g.FGA
	case StatFGPct:
		return &g.FGPct
	case StatFG3M:
		return &g.FG3M
	case StatFG3A:
		return &g.FG3A
	case StatFG3Pc:
		return &g.FG3Pc
	case StatFTM:
		return &g.FTM
	case StatFTA:
		return &g.FTA
	case StatFTPct:
		return &g.FTPct
	case StatOREB:
		return &g.OREB
	case StatDREB:
		return &g.DREB
	case StatREB:
		return &g.REB
	case StatAST:
		return &g.AST
	case StatSTL:
		return &g.STL
	case StatBLK:
		return &g.BLK
	case StatTOV:
		return &g.TOV
	case StatPF:
		return &g.PF
	case StatPTS:
		return &g.PTS
	}
	return nil
}

// TeamSeason identifies one team-season game log table.
type TeamSeason struct {
	TeamID int64
	Season string
}

// GameLogTable is the full game log of one team for one season.
type GameLogTable struct {
	TeamID int64
	Season string
	Rows   []*GameLog
}

// Clone returns a copy of t with copied rows.
func (t *GameLogTable) Clone() *GameLogTable {
	rows := make([]*GameLog, len(t.Rows))
	for i, r := range t.Rows {
		row := *r
		rows[i] = &row
	}
	return &GameLogTable{TeamID: t.TeamID, Season: t.Season, Rows: rows}
}
