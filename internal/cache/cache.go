// Package cache memoizes engine results keyed by their full inputs. The
// engine is referentially transparent, so a cache hit is always safe: the
// cache is an optimization layer wrapped around a pure core, never a
// source of truth.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/surveylens/surveylens/internal/adjust"
	"github.com/surveylens/surveylens/internal/survey"
)

// Store is a bounded in-memory memo table. Eviction is oldest-first;
// capacity <= 0 means unbounded.
type Store[T any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]T
	order    []string
}

// NewStore creates a Store holding at most capacity entries.
func NewStore[T any](capacity int) *Store[T] {
	return &Store[T]{
		capacity: capacity,
		entries:  make(map[string]T),
	}
}

// Get retrieves a memoized value if present.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put stores a value, evicting the oldest entry when over capacity.
func (s *Store[T]) Put(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = value
	for s.capacity > 0 && len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}
}

// Len returns the number of cached entries.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// SeriesKey builds the cache key for a series computation:
// (dataset version, question id, group spec, sort order).
func SeriesKey(datasetVersion, questionID string, groups []survey.GroupDef, order string) string {
	h := sha256.New()
	writeString(h, datasetVersion)
	writeString(h, questionID)
	writeString(h, order)
	for _, g := range groups {
		writeString(h, g.Label)
		writeString(h, g.Key)
		for _, seg := range g.Segments {
			writeString(h, seg.Column)
			writeString(h, seg.Value)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// AnalysisKey builds the cache key for a confounder analysis:
// (dataset version, question id, comparison, controls, headline option).
func AnalysisKey(datasetVersion, questionID string, cmp adjust.Comparison, controls []string, option string) string {
	h := sha256.New()
	writeString(h, datasetVersion)
	writeString(h, questionID)
	writeString(h, cmp.Column)
	writeString(h, cmp.GroupA)
	writeString(h, cmp.GroupB)
	writeString(h, option)
	writeInt(h, len(controls))
	for _, c := range controls {
		writeString(h, c)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Null-delimited writes prevent hash collisions between adjacent fields.

func writeString(w io.Writer, s string) {
	_, _ = w.Write([]byte(s + "\x00"))
}

func writeInt(w io.Writer, i int) {
	_, _ = fmt.Fprintf(w, "%d\x00", i)
}
