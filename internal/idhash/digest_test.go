package idhash

import (
	"testing"

	"nba-feature-lab/internal/domain"
)

func digestTables() []*domain.GameLogTable {
	return []*domain.GameLogTable{
		{TeamID: 1610612752, Season: "2022-23", Rows: []*domain.GameLog{
			{TeamID: 1610612752, GameID: "0022200030", GameDate: "OCT 24, 2022", Matchup: "NYK vs. BOS", WL: "W", PTS: 112},
			{TeamID: 1610612752, GameID: "0022200010", GameDate: "OCT 19, 2022", Matchup: "NYK @ BOS", WL: "L", PTS: 101.5},
		}},
		{TeamID: 1610612738, Season: "2022-23", Rows: []*domain.GameLog{
			{TeamID: 1610612738, GameID: "0022200030", GameDate: "OCT 24, 2022", Matchup: "BOS @ NYK", WL: "L", PTS: 104},
		}},
	}
}

func TestInputDigest_Deterministic(t *testing.T) {
	a := InputDigest(digestTables())
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if b := InputDigest(digestTables()); a != b {
		t.Errorf("digest not deterministic: %s != %s", a, b)
	}

	swapped := digestTables()
	swapped[0], swapped[1] = swapped[1], swapped[0]
	if b := InputDigest(swapped); a != b {
		t.Errorf("digest depends on table order: %s != %s", a, b)
	}
}

func TestInputDigest_ContentChanges(t *testing.T) {
	base := InputDigest(digestTables())

	stat := digestTables()
	stat[0].Rows[1].PTS = 101.6
	if InputDigest(stat) == base {
		t.Error("stat change did not change digest")
	}

	rowOrder := digestTables()
	rowOrder[0].Rows[0], rowOrder[0].Rows[1] = rowOrder[0].Rows[1], rowOrder[0].Rows[0]
	if InputDigest(rowOrder) == base {
		t.Error("row order change did not change digest")
	}

	season := digestTables()
	season[1].Season = "2023-24"
	if InputDigest(season) == base {
		t.Error("season change did not change digest")
	}
}

func TestInputDigest_Empty(t *testing.T) {
	if got := InputDigest(nil); got != "" {
		t.Errorf("expected empty digest, got %q", got)
	}
}
