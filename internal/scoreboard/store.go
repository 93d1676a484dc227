// Package scoreboard implements the ranked, deduplicated, capacity-bounded
// persistent score list over a plain key-value store.
package scoreboard

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"trivia-rush/internal/domain"
)

// Key is the single key the scoreboard is persisted under.
const Key = "scoreboard"

// MaxEntries bounds the scoreboard length; lower-ranked entries are evicted.
const MaxEntries = 20

// KV abstracts the persistence boundary. Get reports absence via the boolean,
// not an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store reads and writes the scoreboard through a KV backend. Add is a
// read-modify-write over the KV, so the Store serializes its own writers; all
// writes to a given backend must go through a single Store instance. Running
// multiple server processes against one Redis would need a distributed lock
// instead.
type Store struct {
	mu sync.Mutex
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// List returns the persisted entries, best score first. Absent or corrupt
// state reads as an empty scoreboard, never an error; the next Add rewrites it.
func (s *Store) List(ctx context.Context) ([]domain.ScoreEntry, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.ScoreEntry{}, nil
	}
	var entries []domain.ScoreEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []domain.ScoreEntry{}, nil
	}
	if entries == nil {
		entries = []domain.ScoreEntry{}
	}
	return entries, nil
}

// Clear replaces the persisted state with an empty list.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(ctx, Key, "[]")
}

// Add inserts a (name, score) entry, re-sorts best score first (stable, so
// earlier submissions win ties), drops later exact duplicates, truncates to
// MaxEntries and persists. It returns the stored list. An empty name is a
// validation failure for the caller to surface, reported as ErrEmptyName.
func (s *Store) Add(ctx context.Context, name string, score int) ([]domain.ScoreEntry, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, domain.ScoreEntry{Name: name, Score: score})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	entries = dedupeAdjacent(entries)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, Key, string(raw)); err != nil {
		return nil, err
	}
	return entries, nil
}

// dedupeAdjacent keeps the first of each run of identical (name, score) pairs.
// Exact duplicates are always adjacent after sorting by score.
func dedupeAdjacent(entries []domain.ScoreEntry) []domain.ScoreEntry {
	out := entries[:0]
	for i, e := range entries {
		if i > 0 && out[len(out)-1] == e {
			continue
		}
		out = append(out, e)
	}
	return out
}
