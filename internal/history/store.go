package history

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlysdark22/store-search/internal/domain"
)

const (
	// maxEntriesPerUser bounds each user's history; the oldest entries are
	// evicted first.
	maxEntriesPerUser = 50

	// dedupWindow suppresses re-recording the same query text for a user
	// within this interval.
	dedupWindow = 60 * time.Second
)

type popularityEntry struct {
	count int
	// seq is the insertion sequence, used as a deterministic tie-breaker
	// when counts are equal.
	seq uint64
}

// Store is the process-wide search history and query popularity state.
// It is safe for concurrent use; all access goes through its methods.
// State is in-memory only and lost on restart.
type Store struct {
	mu         sync.RWMutex
	byUser     map[string][]domain.HistoryEntry
	popularity map[string]*popularityEntry
	nextSeq    uint64

	// now is swappable for tests.
	now func() time.Time
}

// NewStore creates an empty history and popularity store.
func NewStore() *Store {
	return &Store{
		byUser:     make(map[string][]domain.HistoryEntry),
		popularity: make(map[string]*popularityEntry),
		now:        time.Now,
	}
}

// Record prepends a history entry for the user. An entry with identical query
// text recorded within the dedup window is dropped. The user's list is
// truncated to the most recent entries.
func (s *Store) Record(userID, query string, filters domain.FilterSet) {
	if userID == "" || strings.TrimSpace(query) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	entries := s.byUser[userID]

	for _, e := range entries {
		if e.Query == query && now.Sub(e.SearchedAt) < dedupWindow {
			return
		}
	}

	entries = append([]domain.HistoryEntry{{
		Query:      query,
		Filters:    filters,
		SearchedAt: now,
	}}, entries...)

	if len(entries) > maxEntriesPerUser {
		entries = entries[:maxEntriesPerUser]
	}
	s.byUser[userID] = entries
}

// History returns up to limit entries for the user, most recent first.
// limit <= 0 returns the full history.
func (s *Store) History(userID string, limit int) []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.byUser[userID]
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	out := make([]domain.HistoryEntry, limit)
	copy(out, entries[:limit])
	return out
}

// Clear drops all history for the user. Global popularity is unaffected.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}

// IncrementPopularity bumps the global counter for the normalized
// (lowercased, trimmed) query text.
func (s *Store) IncrementPopularity(query string) {
	text := Normalize(query)
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.popularity[text]; ok {
		e.count++
		return
	}
	s.nextSeq++
	s.popularity[text] = &popularityEntry{count: 1, seq: s.nextSeq}
}

// PopularityCount returns the current count for the normalized query text.
func (s *Store) PopularityCount(query string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.popularity[Normalize(query)]; ok {
		return e.count
	}
	return 0
}

// TopPopular returns the n highest-count queries, count descending. Ties are
// broken by insertion order so the result is deterministic under a stable
// write sequence. The returned slice is a snapshot; it may be slightly stale
// under concurrent writers.
func (s *Store) TopPopular(n int) []domain.PopularQuery {
	s.mu.RLock()
	type kv struct {
		text  string
		count int
		seq   uint64
	}
	all := make([]kv, 0, len(s.popularity))
	for text, e := range s.popularity {
		all = append(all, kv{text: text, count: e.count, seq: e.seq})
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].seq < all[j].seq
	})

	if n <= 0 || n > len(all) {
		n = len(all)
	}

	out := make([]domain.PopularQuery, n)
	for i := 0; i < n; i++ {
		out[i] = domain.PopularQuery{Text: all[i].text, Count: all[i].count}
	}
	return out
}

// Normalize lowercases and trims a query for popularity counting.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
