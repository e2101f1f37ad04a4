package domain

// Team is an NBA franchise as identified by stats.nba.com.
type Team struct {
	ID           int64  `csv:"Team_ID" db:"id"`
	Abbreviation string `csv:"abbreviation" db:"abbreviation"`
	FullName     string `csv:"full_name" db:"full_name"`
}
