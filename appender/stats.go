package appender

import (
	"sync/atomic"

	"github.com/philipp01105/nlogconf/core"
)

// Stats tracks appender statistics with one counter pair per level
type Stats struct {
	processed [5]atomic.Uint64
	failed    [5]atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// Record counts one append at level; err decides which counter moves.
func (s *Stats) Record(level core.Level, err error) {
	if !level.Valid() {
		return
	}
	if err != nil {
		s.failed[level].Add(1)
		return
	}
	s.processed[level].Add(1)
}

// GetProcessed returns the processed count for a level
func (s *Stats) GetProcessed(level core.Level) uint64 {
	if !level.Valid() {
		return 0
	}
	return s.processed[level].Load()
}

// GetFailed returns the failed count for a level
func (s *Stats) GetFailed(level core.Level) uint64 {
	if !level.Valid() {
		return 0
	}
	return s.failed[level].Load()
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.processed {
		s.processed[i].Store(0)
		s.failed[i].Store(0)
	}
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	Processed      map[core.Level]uint64
	Failed         map[core.Level]uint64
	ProcessedTotal uint64
	FailedTotal    uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	snap := Snapshot{
		Processed: make(map[core.Level]uint64, 5),
		Failed:    make(map[core.Level]uint64, 5),
	}
	for _, l := range core.Levels() {
		p, f := s.GetProcessed(l), s.GetFailed(l)
		snap.Processed[l] = p
		snap.Failed[l] = f
		snap.ProcessedTotal += p
		snap.FailedTotal += f
	}
	return snap
}

// StatsProvider is implemented by appenders that keep Stats.
type StatsProvider interface {
	Stats() Snapshot
}
