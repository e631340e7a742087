package store

import (
	"context"
	"testing"

	"smartrouting/internal/domain"
)

func TestMemoryAddressStoreListPaging(t *testing.T) {
	s := NewMemoryAddressStore(
		domain.Address{ID: 3, Name: "c"},
		domain.Address{ID: 1, Name: "a"},
		domain.Address{ID: 2, Name: "b"},
	)

	page, total, err := s.List(context.Background(), 1, 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(page) != 2 || page[0].ID != 2 || page[1].ID != 3 {
		t.Fatalf("page = %v, want ids 2 and 3", page)
	}

	page, _, err = s.List(context.Background(), 10, 5, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 0 {
		t.Fatalf("page past the end = %v, want empty", page)
	}
}

func TestMemoryAddressStoreListSearch(t *testing.T) {
	s := NewMemoryAddressStore(
		domain.Address{ID: 1, Name: "Central Depot"},
		domain.Address{ID: 2, Name: "north dock"},
		domain.Address{ID: 3, Name: "East Dock"},
	)

	page, total, err := s.List(context.Background(), 0, 10, "dock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if len(page) != 2 || page[0].ID != 2 || page[1].ID != 3 {
		t.Fatalf("page = %v, want ids 2 and 3", page)
	}

	_, total, err = s.List(context.Background(), 0, 10, "warehouse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
}

func TestMemoryDistanceCacheCanonicalPairs(t *testing.T) {
	c := NewMemoryDistanceCache()
	ctx := context.Background()

	if err := c.Upsert(ctx, 5, 2, 777); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := c.Get(ctx, []int{2, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Loc1 != 2 || entries[0].Loc2 != 5 {
		t.Fatalf("pair = (%d, %d), want canonical (2, 5)", entries[0].Loc1, entries[0].Loc2)
	}

	// Pairs with only one endpoint in the id set stay hidden.
	entries, err = c.Get(ctx, []int{5, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %v, want none", entries)
	}
}
