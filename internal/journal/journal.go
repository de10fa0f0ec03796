package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Operation is the member operation an entry records
type Operation string

const (
	OperationSet    Operation = "set"
	OperationCall   Operation = "call"
	OperationReject Operation = "reject"
)

// ErrNilEntry is returned when recording a nil entry
var ErrNilEntry = errors.New("journal: entry cannot be nil")

// Entry is one recorded mutation
type Entry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Operation Operation       `json:"operation"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	Error     string          `json:"error,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
}

// Stats summarizes the journal
type Stats struct {
	TotalEntries  int64               `json:"totalEntries"`
	EntriesByOp   map[Operation]int64 `json:"entriesByOp"`
	EntriesByType map[string]int64    `json:"entriesByType"`
	ErrorCount    int64               `json:"errorCount"`
	LastEntry     time.Time           `json:"lastEntry"`
}

// Journal stores mutation entries
type Journal interface {
	// Record stores entry, filling in its ID and timestamp when empty
	Record(ctx context.Context, entry *Entry) error

	// RecordChange stores a before/after snapshot of a member write
	RecordChange(ctx context.Context, typ, key string, op Operation, before, after any) error

	// RecordError stores a rejected mutation
	RecordError(ctx context.Context, typ, key string, err error) error

	// ByKey returns the entries for one member of one type, oldest first
	ByKey(ctx context.Context, typ, key string) ([]*Entry, error)

	// ByTimeRange returns the entries recorded in (start, end)
	ByTimeRange(ctx context.Context, start, end time.Time) ([]*Entry, error)

	// Stats returns journal statistics
	Stats(ctx context.Context) (*Stats, error)

	// Clear removes entries older than olderThan
	Clear(ctx context.Context, olderThan time.Duration) (int, error)
}

// InMemoryJournal is a bounded in-memory Journal
type InMemoryJournal struct {
	entries       []*Entry
	byKey         map[string][]*Entry
	mu            sync.RWMutex
	maxEntries    int
	rotatePercent float64
}

var _ Journal = (*InMemoryJournal)(nil)

// Option configures the in-memory journal
type Option func(*InMemoryJournal)

// WithMaxEntries sets the capacity
func WithMaxEntries(max int) Option {
	return func(j *InMemoryJournal) {
		if max > 0 {
			j.maxEntries = max
		}
	}
}

// WithRotatePercent sets the share of entries dropped when capacity is reached
func WithRotatePercent(percent float64) Option {
	return func(j *InMemoryJournal) {
		if percent > 0 && percent <= 1 {
			j.rotatePercent = percent
		}
	}
}

// NewInMemoryJournal creates an empty journal
func NewInMemoryJournal(opts ...Option) *InMemoryJournal {
	j := &InMemoryJournal{
		byKey:         make(map[string][]*Entry),
		maxEntries:    10000,
		rotatePercent: 0.2,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func indexKey(typ, key string) string {
	return typ + "\x00" + key
}

// Record implements Journal
func (j *InMemoryJournal) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return ErrNilEntry
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.entries) >= j.maxEntries {
		j.rotate()
	}

	j.entries = append(j.entries, entry)
	k := indexKey(entry.Type, entry.Key)
	j.byKey[k] = append(j.byKey[k], entry)

	return nil
}

// RecordChange implements Journal
func (j *InMemoryJournal) RecordChange(ctx context.Context, typ, key string, op Operation, before, after any) error {
	beforeState, err := snapshot(before)
	if err != nil {
		return fmt.Errorf("failed to snapshot before state: %w", err)
	}
	afterState, err := snapshot(after)
	if err != nil {
		return fmt.Errorf("failed to snapshot after state: %w", err)
	}

	return j.Record(ctx, &Entry{
		Type:      typ,
		Key:       key,
		Operation: op,
		Before:    beforeState,
		After:     afterState,
	})
}

// RecordError implements Journal
func (j *InMemoryJournal) RecordError(ctx context.Context, typ, key string, err error) error {
	if err == nil {
		return nil
	}
	return j.Record(ctx, &Entry{
		Type:      typ,
		Key:       key,
		Operation: OperationReject,
		Error:     err.Error(),
	})
}

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// ByKey implements Journal
func (j *InMemoryJournal) ByKey(ctx context.Context, typ, key string) ([]*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return copyEntries(j.byKey[indexKey(typ, key)]), nil
}

// ByTimeRange implements Journal
func (j *InMemoryJournal) ByTimeRange(ctx context.Context, start, end time.Time) ([]*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var matched []*Entry
	for _, e := range j.entries {
		if e.Timestamp.After(start) && e.Timestamp.Before(end) {
			matched = append(matched, e)
		}
	}
	return copyEntries(matched), nil
}

// Entries returns every entry, oldest first
func (j *InMemoryJournal) Entries() []*Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return copyEntries(j.entries)
}

// Len returns the number of entries
func (j *InMemoryJournal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Stats implements Journal
func (j *InMemoryJournal) Stats(ctx context.Context) (*Stats, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	stats := &Stats{
		TotalEntries:  int64(len(j.entries)),
		EntriesByOp:   make(map[Operation]int64),
		EntriesByType: make(map[string]int64),
	}
	for _, e := range j.entries {
		stats.EntriesByOp[e.Operation]++
		stats.EntriesByType[e.Type]++
		if e.Error != "" {
			stats.ErrorCount++
		}
		if e.Timestamp.After(stats.LastEntry) {
			stats.LastEntry = e.Timestamp
		}
	}
	return stats, nil
}

// Clear implements Journal
func (j *InMemoryJournal) Clear(ctx context.Context, olderThan time.Duration) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	kept := make([]*Entry, 0, len(j.entries))
	for _, e := range j.entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}

	removed := len(j.entries) - len(kept)
	j.entries = kept
	j.reindex()
	return removed, nil
}

// rotate drops the oldest entries
func (j *InMemoryJournal) rotate() {
	n := int(float64(j.maxEntries) * j.rotatePercent)
	if n < 1 {
		n = 1
	}
	if n > len(j.entries) {
		n = len(j.entries)
	}
	j.entries = append([]*Entry(nil), j.entries[n:]...)
	j.reindex()
}

func (j *InMemoryJournal) reindex() {
	j.byKey = make(map[string][]*Entry)
	for _, e := range j.entries {
		k := indexKey(e.Type, e.Key)
		j.byKey[k] = append(j.byKey[k], e)
	}
}

func copyEntries(entries []*Entry) []*Entry {
	out := make([]*Entry, len(entries))
	for i, e := range entries {
		c := *e
		out[i] = &c
	}
	return out
}
