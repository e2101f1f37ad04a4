package domain

// StatName identifies a box-score column in an NBA team game log.
type StatName string

const (
	StatFGM   StatName = "FGM"     // field goals made
	StatFGA   StatName = "FGA"     // field goals attempted
	StatFGPct StatName = "FG_PCT"  // field goal percentage
	StatFG3M  StatName = "FG3M"    // three-pointers made
	StatFG3A  StatName = "FG3A"    // three-pointers attempted
	StatFG3Pc StatName = "FG3_PCT" // three-point percentage
	StatFTM   StatName = "FTM"     // free throws made
	StatFTA   StatName = "FTA"     // free throws attempted
	StatFTPct StatName = "FT_PCT"  // free throw percentage
	StatOREB  StatName = "OREB"    // offensive rebounds
	StatDREB  StatName = "DREB"    // defensive rebounds
	StatREB   StatName = "REB"     // total rebounds
	StatAST   StatName = "AST"     // assists
	StatSTL   StatName = "STL"     // steals
	StatBLK   StatName = "BLK"     // blocks
	StatTOV   StatName = "TOV"     // turnovers
	StatPF    StatName = "PF"      // personal fouls
	StatPTS   StatName = "PTS"     // points
)

// AllStats lists every box-score column in game log order.
var AllStats = []StatName{
	StatFGM, StatFGA, StatFGPct,
	StatFG3M, StatFG3A, StatFG3Pc,
	StatFTM, StatFTA, StatFTPct,
	StatOREB, StatDREB, StatREB,
	StatAST, StatSTL, StatBLK,
	StatTOV, StatPF, StatPTS,
}

// String returns the column name.
func (s StatName) String() string {
	return string(s)
}

// IsValid reports whether s is a known box-score column.
func (s StatName) IsValid() bool {
	for _, known := range AllStats {
		if s == known {
			return true
		}
	}
	return false
}
