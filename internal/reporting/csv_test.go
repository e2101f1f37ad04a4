package reporting

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"nba-feature-lab/internal/domain"
)

func csvRow(v float64) *domain.FeatureRow {
	means := func(x float64) map[domain.StatName]float64 {
		return map[domain.StatName]float64{domain.StatPTS: x, domain.StatAST: x / 4}
	}
	return &domain.FeatureRow{
		GameID:         "0022200011",
		TeamID:         1610612752,
		OpponentTeamID: 1610612738,
		Season:         "2022-23",
		GameDate:       time.Date(2022, time.October, 29, 0, 0, 0, 0, time.UTC),
		IsHome:         true,
		Target:         1,
		Self:           domain.TeamFeatures{WinCount: 5, StatMeans: means(v)},
		Opponent:       domain.TeamFeatures{WinCount: 4, StatMeans: means(v + 1)},
	}
}

func TestWriteFeaturesCSV(t *testing.T) {
	schema := domain.FeatureSchema{WinWindow: 10, StatWindow: 5, Stats: []domain.StatName{domain.StatPTS, domain.StatAST}}
	third := 1.0 / 3.0

	var buf bytes.Buffer
	if err := WriteFeaturesCSV(&buf, schema, []*domain.FeatureRow{csvRow(third)}); err != nil {
		t.Fatalf("WriteFeaturesCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	wantHeader := "game_id,team_id,opponent_team_id,season,game_date,is_home,target," +
		"last10_win_count,last10_win_count_opp,PTS_rolling5,PTS_rolling5_opp,AST_rolling5,AST_rolling5_opp"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("header = %s", got)
	}

	row := records[1]
	if row[0] != "0022200011" || row[1] != "1610612752" || row[2] != "1610612738" {
		t.Errorf("ids = %v", row[:3])
	}
	if row[4] != "2022-10-29" || row[5] != "1" || row[6] != "1" {
		t.Errorf("date/home/target = %v", row[4:7])
	}
	if row[7] != "5" || row[8] != "4" {
		t.Errorf("win counts = %v", row[7:9])
	}

	got, err := strconv.ParseFloat(row[9], 64)
	if err != nil || got != third {
		t.Errorf("PTS_rolling5 = %s, does not round-trip to %v", row[9], third)
	}
}

func TestWriteFeaturesCSV_MissingStat(t *testing.T) {
	schema := domain.FeatureSchema{WinWindow: 10, StatWindow: 5, Stats: []domain.StatName{domain.StatREB}}
	var buf bytes.Buffer
	if err := WriteFeaturesCSV(&buf, schema, []*domain.FeatureRow{csvRow(1)}); err == nil {
		t.Error("expected error for a row without REB_rolling5")
	}
}
