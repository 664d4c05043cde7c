// Package memory provides an in-memory ring of recent UI state snapshots.
// It backs the debug history endpoint; nothing is persisted across restarts.
package memory

import (
	"sync"
	"time"

	"github.com/RamadanElSayed/coflow/internal/model"
)

// Entry is one recorded snapshot with the time it was observed.
type Entry struct {
	State      model.UIState `json:"state"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Recorder keeps the most recent UI state snapshots in a bounded ring.
type Recorder struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
}

// NewRecorder creates a Recorder that retains up to limit snapshots.
func NewRecorder(limit int) *Recorder {
	if limit < 1 {
		limit = 1
	}
	return &Recorder{limit: limit}
}

// Record appends a snapshot, evicting the oldest when the ring is full.
func (r *Recorder) Record(state model.UIState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{State: state, RecordedAt: time.Now()})
	if len(r.entries) > r.limit {
		r.entries = r.entries[len(r.entries)-r.limit:]
	}
}

// Snapshots returns the recorded entries, oldest first.
func (r *Recorder) Snapshots() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of retained snapshots.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
