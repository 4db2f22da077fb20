package appender

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/philipp01105/nlogconf/core"
)

// Named pairs an appender with the name it was declared under
type Named struct {
	Name     string
	Appender Appender
}

// ErrorHandler receives every failure of a single appender during fan-out
type ErrorHandler func(name string, e *core.Event, err error)

// PanicError wraps a value recovered from a panicking appender
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("appender panicked: %v", p.Value)
}

// Multi sends log events to an ordered list of appenders
type Multi struct {
	appenders []Named
	onError   ErrorHandler
}

// NewMulti creates a new fan-out over appenders, in the given order.
// Duplicates are kept and receive the event once per occurrence.
func NewMulti(onError ErrorHandler, appenders ...Named) *Multi {
	list := make([]Named, 0, len(appenders))
	for _, a := range appenders {
		if a.Appender != nil {
			list = append(list, a)
		}
	}
	return &Multi{appenders: list, onError: onError}
}

// Append delivers e to every appender in order. A failing or panicking
// appender does not stop delivery to the ones after it.
func (m *Multi) Append(e *core.Event) error {
	var errs error
	for _, a := range m.appenders {
		if err := safeAppend(a.Appender, e); err != nil {
			err = fmt.Errorf("appender %q: %w", a.Name, err)
			if m.onError != nil {
				m.onError(a.Name, e, err)
			}
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func safeAppend(a Appender, e *core.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return a.Append(e)
}

// Len returns the number of attached appenders
func (m *Multi) Len() int {
	return len(m.appenders)
}

// Appenders returns a copy of the attached appenders
func (m *Multi) Appenders() []Named {
	out := make([]Named, len(m.appenders))
	copy(out, m.appenders)
	return out
}

// Close closes every distinct appender once
func (m *Multi) Close() error {
	return CloseAll(m.appenders)
}

// CloseAll closes every distinct appender in list once and combines the
// errors.
func CloseAll(list []Named) error {
	seen := make(map[Appender]struct{}, len(list))
	var errs error
	for _, a := range list {
		if _, ok := seen[a.Appender]; ok {
			continue
		}
		seen[a.Appender] = struct{}{}
		if err := a.Appender.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close appender %q: %w", a.Name, err))
		}
	}
	return errs
}

// Opener is implemented by appenders that acquire their output in a
// separate step after construction.
type Opener interface {
	Open() error
}

// OpenAll opens every distinct Opener in list once, in order, and stops
// at the first failure.
func OpenAll(list []Named) error {
	seen := make(map[Appender]struct{}, len(list))
	for _, a := range list {
		if _, ok := seen[a.Appender]; ok {
			continue
		}
		seen[a.Appender] = struct{}{}
		o, ok := a.Appender.(Opener)
		if !ok {
			continue
		}
		if err := o.Open(); err != nil {
			return fmt.Errorf("open appender %q: %w", a.Name, err)
		}
	}
	return nil
}
