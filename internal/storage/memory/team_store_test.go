package memory

import (
	"context"
	"errors"
	"testing"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/storage"
)

func TestTeamStore_UpsertAndLookup(t *testing.T) {
	store := NewTeamStore()
	ctx := context.Background()

	teams := []*domain.Team{
		{ID: 1610612752, Abbreviation: "NYK", FullName: "New York Knicks"},
		{ID: 1610612738, Abbreviation: "BOS", FullName: "Boston Celtics"},
	}
	if err := store.Upsert(ctx, teams); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.GetByAbbreviation(ctx, "nyk")
	if err != nil {
		t.Fatalf("GetByAbbreviation failed: %v", err)
	}
	if got.ID != 1610612752 {
		t.Errorf("Expected NYK id, got %d", got.ID)
	}

	// Upsert replaces by id.
	if err := store.Upsert(ctx, []*domain.Team{{ID: 1610612738, Abbreviation: "BOS", FullName: "Celtics"}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	bos, _ := store.GetByID(ctx, 1610612738)
	if bos.FullName != "Celtics" {
		t.Errorf("Expected replaced name, got %q", bos.FullName)
	}

	all, _ := store.GetAll(ctx)
	if len(all) != 2 || all[0].ID != 1610612738 {
		t.Errorf("Expected 2 teams ordered by id, got %+v", all)
	}
}

func TestTeamStore_Errors(t *testing.T) {
	store := NewTeamStore()
	ctx := context.Background()

	if _, err := store.GetByID(ctx, 42); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetByAbbreviation(ctx, "XXX"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.Upsert(ctx, []*domain.Team{{ID: 1}}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
