package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// coarseResolution is the refresh period of the cached clock. Event
// timestamps are rendered with millisecond precision, so a sub-millisecond
// period keeps rendered dates exact in practice.
const coarseResolution = 500 * time.Microsecond

var (
	coarseClockOnce sync.Once
	coarseNow       atomic.Pointer[time.Time]
)

// StartCoarseClock starts the goroutine that caches time.Now(). It is safe
// to call more than once; the goroutine is started a single time and runs
// for the rest of the process.
func StartCoarseClock() {
	coarseClockOnce.Do(func() {
		t := time.Now()
		coarseNow.Store(&t)
		go func() {
			ticker := time.NewTicker(coarseResolution)
			for tick := range ticker.C {
				coarseNow.Store(&tick)
			}
		}()
	})
}

// CoarseNow returns the most recently cached time. It falls back to
// time.Now when the coarse clock was never started.
func CoarseNow() time.Time {
	if t := coarseNow.Load(); t != nil {
		return *t
	}
	return time.Now()
}
