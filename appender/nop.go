package appender

import (
	"sync"

	"github.com/philipp01105/nlogconf/core"
)

// Nop is an appender that discards every event
type Nop struct {
	Base
}

// NewNop creates a new discarding appender
func NewNop() *Nop {
	return &Nop{}
}

// Append discards e
func (*Nop) Append(*core.Event) error { return nil }

// Close does nothing
func (*Nop) Close() error { return nil }

// Recorder keeps every appended event and its rendered line in memory.
// It is safe for concurrent use.
type Recorder struct {
	Base

	// OnAppend, when set, is called with each event after it is recorded.
	OnAppend func(e *core.Event)

	mu     sync.Mutex
	events []*core.Event
	lines  []string
	closed bool
}

// NewRecorder creates a new recording appender
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append records e and its rendering
func (r *Recorder) Append(e *core.Event) error {
	line, err := r.Render(e)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.events = append(r.events, e)
	r.lines = append(r.lines, line)
	cb := r.OnAppend
	r.mu.Unlock()

	if cb != nil {
		cb(e)
	}
	return nil
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []*core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*core.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Lines returns a copy of the recorded renderings
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops all recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.lines = nil
	r.mu.Unlock()
}

// Close makes later Append calls fail with ErrClosed
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}
