// Package telemetry keeps an in-memory record of gameplay events: a bounded
// ring of recent events and running counts by type.
package telemetry

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luketas/soccer-ai/internal/shared/types"
)

// DefaultCapacity bounds the recent-event ring.
const DefaultCapacity = 1000

// Store ingests telemetry events. It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	capacity    int
	recent      []types.TelemetryEvent
	totalIngest int64
	byType      map[string]int64
	now         func() time.Time
}

// Summary is a snapshot of the counters.
type Summary struct {
	Total  int64
	ByType map[string]int64
}

// NewStore returns a store keeping at most capacity recent events.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		recent:   make([]types.TelemetryEvent, 0, min(capacity, 512)),
		byType:   make(map[string]int64),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Ingest stamps missing IDs and timestamps and records ev.
func (s *Store) Ingest(ev types.TelemetryEvent) (types.TelemetryEvent, error) {
	if ev.EventType == "" {
		return ev, fmt.Errorf("telemetry: event_type required")
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = s.now().UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalIngest++
	s.byType[ev.EventType]++
	s.recent = append(s.recent, ev)
	if len(s.recent) > s.capacity {
		s.recent = s.recent[len(s.recent)-s.capacity:]
	}
	return ev, nil
}

// Recent returns up to limit of the newest events, oldest first.
func (s *Store) Recent(limit int) []types.TelemetryEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	out := make([]types.TelemetryEvent, limit)
	copy(out, s.recent[len(s.recent)-limit:])
	return out
}

// Summary copies the counters.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byType := make(map[string]int64, len(s.byType))
	for k, v := range s.byType {
		byType[k] = v
	}
	return Summary{Total: s.totalIngest, ByType: byType}
}

// WriteMetrics renders the counters in the Prometheus text format.
func (s *Store) WriteMetrics(w io.Writer) error {
	sum := s.Summary()
	keys := make([]string, 0, len(sum.ByType))
	for k := range sum.ByType {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprintln(w, "# HELP soccer_events_total Total gameplay events ingested"); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "# TYPE soccer_events_total counter")
	_, _ = fmt.Fprintf(w, "soccer_events_total %d\n", sum.Total)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "soccer_events_by_type{event_type=%q} %d\n", k, sum.ByType[k]); err != nil {
			return err
		}
	}
	return nil
}
