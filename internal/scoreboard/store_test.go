package scoreboard_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"trivia-rush/internal/domain"
	"trivia-rush/internal/infra/memory"
	"trivia-rush/internal/scoreboard"
)

func TestListOnFreshStoreIsEmpty(t *testing.T) {
	store := scoreboard.NewStore(memory.NewKV())

	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty scoreboard, got %v", entries)
	}
}

func TestAddSortsBestScoreFirst(t *testing.T) {
	ctx := context.Background()
	store := scoreboard.NewStore(memory.NewKV())

	for _, e := range []domain.ScoreEntry{
		{Name: "Al", Score: 10},
		{Name: "Bea", Score: 30},
		{Name: "Cid", Score: 20},
	} {
		if _, err := store.Add(ctx, e.Name, e.Score); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []domain.ScoreEntry{{Name: "Bea", Score: 30}, {Name: "Cid", Score: 20}, {Name: "Al", Score: 10}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("rank %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}
}

func TestAddIsIdempotentForExactDuplicates(t *testing.T) {
	ctx := context.Background()
	store := scoreboard.NewStore(memory.NewKV())

	if _, err := store.Add(ctx, "Al", 50); err != nil {
		t.Fatalf("add: %v", err)
	}
	entries, err := store.Add(ctx, "Al", 50)
	if err != nil {
		t.Fatalf("add duplicate: %v", err)
	}
	if len(entries) != 1 || entries[0] != (domain.ScoreEntry{Name: "Al", Score: 50}) {
		t.Fatalf("expected single Al/50 entry, got %v", entries)
	}
}

func TestSameNameDifferentScoresBothKept(t *testing.T) {
	ctx := context.Background()
	store := scoreboard.NewStore(memory.NewKV())

	_, _ = store.Add(ctx, "Al", 50)
	entries, err := store.Add(ctx, "Al", 40)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("different scores for the same name must both persist, got %v", entries)
	}
}

func TestCapacityEvictsLowestRank(t *testing.T) {
	ctx := context.Background()
	store := scoreboard.NewStore(memory.NewKV())

	for i := 1; i <= scoreboard.MaxEntries; i++ {
		if _, err := store.Add(ctx, fmt.Sprintf("p%d", i), i); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	entries, err := store.Add(ctx, "champ", 100)
	if err != nil {
		t.Fatalf("add 21st: %v", err)
	}

	if len(entries) != scoreboard.MaxEntries {
		t.Fatalf("scoreboard must stay at %d entries, got %d", scoreboard.MaxEntries, len(entries))
	}
	if entries[0].Name != "champ" {
		t.Fatalf("expected champ on top, got %+v", entries[0])
	}
	for _, e := range entries {
		if e.Name == "p1" {
			t.Fatalf("lowest-ranked entry must be evicted, got %v", entries)
		}
	}
}

func TestEmptyNameRejected(t *testing.T) {
	ctx := context.Background()
	store := scoreboard.NewStore(memory.NewKV())

	for _, name := range []string{"", "   "} {
		if _, err := store.Add(ctx, name, 10); !errors.Is(err, domain.ErrEmptyName) {
			t.Fatalf("name %q: expected ErrEmptyName, got %v", name, err)
		}
	}
	entries, _ := store.List(ctx)
	if len(entries) != 0 {
		t.Fatalf("rejected adds must not persist, got %v", entries)
	}
}

func TestCorruptStateReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	if err := kv.Set(ctx, scoreboard.Key, "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := scoreboard.NewStore(kv)

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("corrupt state must not error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty scoreboard, got %v", entries)
	}

	// The next Add rewrites the corrupt value.
	if _, err := store.Add(ctx, "Al", 5); err != nil {
		t.Fatalf("add after corruption: %v", err)
	}
	entries, _ = store.List(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected recovered scoreboard, got %v", entries)
	}
}

func TestClearEmptiesScoreboard(t *testing.T) {
	ctx := context.Background()
	store := scoreboard.NewStore(memory.NewKV())

	_, _ = store.Add(ctx, "Al", 50)
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected cleared scoreboard, got %v", entries)
	}
}

func TestStoredFormatRoundTrips(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	store := scoreboard.NewStore(kv)

	if _, err := store.Add(ctx, "Al", 50); err != nil {
		t.Fatalf("add: %v", err)
	}
	raw, ok, err := kv.Get(ctx, scoreboard.Key)
	if err != nil || !ok {
		t.Fatalf("expected persisted value, ok=%v err=%v", ok, err)
	}
	if raw != `[{"name":"Al","score":50}]` {
		t.Fatalf("unexpected storage format: %s", raw)
	}
}

func TestConcurrentAddsLoseNoEntries(t *testing.T) {
	ctx := context.Background()
	store := scoreboard.NewStore(memory.NewKV())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Add(ctx, fmt.Sprintf("player-%d", i), i+1); err != nil {
				t.Errorf("add %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("expected all 10 submissions kept, got %d: %v", len(entries), entries)
	}
}
