package csvfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"nba-feature-lab/internal/domain"
)

// LookupFileName is the conventional team lookup file name.
const LookupFileName = "nba_team_lookup.csv"

type lookupRow struct {
	TeamID       int64  `csv:"Team_ID"`
	Abbreviation string `csv:"abbreviation"`
}

// WriteTeamLookup writes Team_ID,abbreviation rows to path, replacing any
// existing file.
func WriteTeamLookup(path string, teams []*domain.Team) error {
	rows := make([]*lookupRow, len(teams))
	for i, t := range teams {
		rows[i] = &lookupRow{TeamID: t.ID, Abbreviation: t.Abbreviation}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create lookup dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadTeamLookup reads a file written by WriteTeamLookup.
func ReadTeamLookup(path string) ([]*domain.Team, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []*lookupRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]*domain.Team, len(rows))
	for i, r := range rows {
		out[i] = &domain.Team{ID: r.TeamID, Abbreviation: r.Abbreviation}
	}
	return out, nil
}
