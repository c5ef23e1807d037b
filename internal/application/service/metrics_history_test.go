package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotAt(ts time.Time) *MetricsSnapshot {
	s := NewZeroSnapshot(ts)
	return s
}

func TestHistoryAppendAndLatest(t *testing.T) {
	history := NewSnapshotHistory(24)
	now := time.Now()

	first := snapshotAt(now)
	second := snapshotAt(now.Add(time.Minute))
	history.Append(first)
	history.Append(second)

	assert.Equal(t, 2, history.Len())

	latest, ok := history.Latest()
	require.True(t, ok)
	assert.Same(t, second, latest)

	previous, ok := history.Previous()
	require.True(t, ok)
	assert.Same(t, first, previous)
}

func TestHistoryPreviousNeedsTwoEntries(t *testing.T) {
	history := NewSnapshotHistory(24)

	_, ok := history.Previous()
	assert.False(t, ok)

	history.Append(snapshotAt(time.Now()))
	_, ok = history.Previous()
	assert.False(t, ok)
}

func TestHistoryEvictsOldestAtCapacity(t *testing.T) {
	history := NewSnapshotHistory(24)
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		history.Append(snapshotAt(base.Add(time.Duration(i) * time.Hour)))
	}

	assert.Equal(t, 24, history.Len())

	// The first snapshot is gone; the window now starts at hour 1.
	all := history.Recent(365*24*time.Hour, base.Add(25*time.Hour))
	require.Len(t, all, 24)
	assert.Equal(t, base.Add(1*time.Hour), all[0].Timestamp)
	assert.Equal(t, base.Add(24*time.Hour), all[23].Timestamp)
}

func TestHistoryRecentFiltersByWindow(t *testing.T) {
	history := NewSnapshotHistory(24)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	history.Append(snapshotAt(now.Add(-10 * time.Hour)))
	history.Append(snapshotAt(now.Add(-5 * time.Hour)))
	history.Append(snapshotAt(now.Add(-1 * time.Hour)))

	recent := history.Recent(6*time.Hour, now)
	require.Len(t, recent, 2)
	assert.Equal(t, now.Add(-5*time.Hour), recent[0].Timestamp)
	assert.Equal(t, now.Add(-1*time.Hour), recent[1].Timestamp)
}

func TestHistoryChecksumStable(t *testing.T) {
	history := NewSnapshotHistory(24)
	now := time.Now()

	a := NewZeroSnapshot(now)
	b := NewZeroSnapshot(now.Add(time.Hour))

	// Timestamp is not part of the checksum: equal metrics hash equally.
	assert.Equal(t, history.Checksum(a), history.Checksum(b))

	b.ActiveOrders = 3
	assert.NotEqual(t, history.Checksum(a), history.Checksum(b))
}

func TestHistoryWrapsRepeatedly(t *testing.T) {
	history := NewSnapshotHistory(4)
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		history.Append(snapshotAt(base.Add(time.Duration(i) * time.Minute)))
	}

	require.Equal(t, 4, history.Len())
	all := history.Recent(time.Hour, base.Add(10*time.Minute))
	for i, s := range all {
		expected := base.Add(time.Duration(6+i) * time.Minute)
		assert.Equal(t, expected, s.Timestamp, fmt.Sprintf("entry %d", i))
	}
}
