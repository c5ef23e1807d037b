package service

import (
	"sync"
	"time"
)

// DefaultHistorySize bounds the snapshot ring buffer.
const DefaultHistorySize = 24

// SnapshotHistory is a fixed-capacity ring buffer of past snapshots used for
// trend and anomaly comparison. At capacity the oldest entry is evicted;
// this is debugging/trend data, not a ledger. A mutex enforces the
// single-writer discipline the ring append requires.
type SnapshotHistory struct {
	mu      sync.Mutex
	entries []*MetricsSnapshot
	head    int
	count   int
}

// NewSnapshotHistory creates a history with the given capacity; zero or
// negative falls back to DefaultHistorySize.
func NewSnapshotHistory(capacity int) *SnapshotHistory {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &SnapshotHistory{entries: make([]*MetricsSnapshot, capacity)}
}

// Append inserts a snapshot at the tail, evicting the head when full.
func (h *SnapshotHistory) Append(snapshot *MetricsSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tail := (h.head + h.count) % len(h.entries)
	h.entries[tail] = snapshot
	if h.count < len(h.entries) {
		h.count++
	} else {
		h.head = (h.head + 1) % len(h.entries)
	}
}

// Len returns the number of retained snapshots.
func (h *SnapshotHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Latest returns the most recent snapshot.
func (h *SnapshotHistory) Latest() (*MetricsSnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return nil, false
	}
	return h.entries[(h.head+h.count-1)%len(h.entries)], true
}

// Previous returns the snapshot immediately before the latest one.
func (h *SnapshotHistory) Previous() (*MetricsSnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count < 2 {
		return nil, false
	}
	return h.entries[(h.head+h.count-2)%len(h.entries)], true
}

// Recent returns the snapshots whose timestamp falls within the window ending
// at now, oldest first.
func (h *SnapshotHistory) Recent(window time.Duration, now time.Time) []*MetricsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := now.Add(-window)
	result := make([]*MetricsSnapshot, 0, h.count)
	for i := 0; i < h.count; i++ {
		s := h.entries[(h.head+i)%len(h.entries)]
		if !s.Timestamp.Before(cutoff) {
			result = append(result, s)
		}
	}
	return result
}

// Checksum recomputes the drift-detection hash for a snapshot. Two
// nominally-equal recomputations must agree on it.
func (h *SnapshotHistory) Checksum(snapshot *MetricsSnapshot) string {
	return ComputeChecksum(snapshot)
}
