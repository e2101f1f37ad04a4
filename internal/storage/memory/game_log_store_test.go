package memory

import (
	"context"
	"errors"
	"testing"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

func testTable(teamID int64, season string, gameIDs ...string) *domain.GameLogTable {
	t := &domain.GameLogTable{TeamID: teamID, Season: season}
	for i, id := range gameIDs {
		t.Rows = append(t.Rows, &domain.GameLog{
			TeamID:   teamID,
			GameID:   id,
			GameDate: "OCT 2" + string(rune('0'+i)) + ", 2022",
			Matchup:  "NYK vs. BOS",
			WL:       "W",
			PTS:      domain.StatValue(100 + i),
		})
	}
	return t
}

func TestGameLogStore_InsertAndGet(t *testing.T) {
	store := NewGameLogStore()
	ctx := context.Background()

	// Duplicate game rows are kept as-is; dedup happens at load time.
	table := testTable(1610612752, "2022-23", "0022200001", "0022200002", "0022200002")
	if err := store.InsertTable(ctx, table); err != nil {
		t.Fatalf("InsertTable failed: %v", err)
	}

	got, err := store.GetTable(ctx, 1610612752, "2022-23")
	if err != nil {
		t.Fatalf("GetTable failed: %v", err)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(got.Rows))
	}
	if got.Rows[0].GameID != "0022200001" || got.Rows[2].PTS != 102 {
		t.Errorf("Rows not returned in original order: %+v", got.Rows)
	}

	// Returned table is a copy.
	got.Rows[0].PTS = -1
	again, _ := store.GetTable(ctx, 1610612752, "2022-23")
	if again.Rows[0].PTS != 100 {
		t.Errorf("Store was mutated through returned table")
	}
}

func TestGameLogStore_DuplicateTable(t *testing.T) {
	store := NewGameLogStore()
	ctx := context.Background()

	if err := store.InsertTable(ctx, testTable(1, "2022-23", "a")); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	err := store.InsertTable(ctx, testTable(1, "2022-23", "b"))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestGameLogStore_NotFoundAndInvalid(t *testing.T) {
	store := NewGameLogStore()
	ctx := context.Background()

	if _, err := store.GetTable(ctx, 1, "2022-23"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.InsertTable(ctx, &domain.GameLogTable{TeamID: 1}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing season, got %v", err)
	}
}

func TestGameLogStore_ListTeamSeasons(t *testing.T) {
	store := NewGameLogStore()
	ctx := context.Background()

	for _, ts := range []domain.TeamSeason{{TeamID: 2, Season: "2021-22"}, {TeamID: 1, Season: "2022-23"}, {TeamID: 1, Season: "2021-22"}} {
		if err := store.InsertTable(ctx, testTable(ts.TeamID, ts.Season, "g")); err != nil {
			t.Fatalf("InsertTable failed: %v", err)
		}
	}

	keys, err := store.ListTeamSeasons(ctx)
	if err != nil {
		t.Fatalf("ListTeamSeasons failed: %v", err)
	}
	want := []domain.TeamSeason{{TeamID: 1, Season: "2021-22"}, {TeamID: 1, Season: "2022-23"}, {TeamID: 2, Season: "2021-22"}}
	if len(keys) != len(want) {
		t.Fatalf("Expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Key %d: expected %v, got %v", i, want[i], keys[i])
		}
	}
}
