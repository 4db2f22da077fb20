package appender

import (
	"errors"
	"io"
	"sync"

	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/formatter"
)

// ErrClosed is returned when writing through an appender whose output was
// never opened or has been closed.
var ErrClosed = errors.New("appender: output is not open")

// Appender defines the interface for log appenders
type Appender interface {
	// Append renders and writes a log event
	Append(e *core.Event) error

	// Formatter returns the owned formatter, or nil
	Formatter() formatter.Formatter

	// SetFormatter replaces the owned formatter
	SetFormatter(f formatter.Formatter)

	// Close closes the appender and releases resources
	Close() error
}

// Base carries the optional formatter of an appender. Implementations
// embed it to satisfy the Formatter and SetFormatter methods.
type Base struct {
	mu        sync.RWMutex
	formatter formatter.Formatter
}

// Formatter returns the owned formatter, or nil
func (b *Base) Formatter() formatter.Formatter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.formatter
}

// SetFormatter replaces the owned formatter
func (b *Base) SetFormatter(f formatter.Formatter) {
	b.mu.Lock()
	b.formatter = f
	b.mu.Unlock()
}

// Render returns e rendered by the owned formatter, or its raw message
// when there is none.
func (b *Base) Render(e *core.Event) (string, error) {
	buf := formatter.GetBuffer()
	defer formatter.PutBuffer(buf)
	if err := formatter.AppendEvent(b.Formatter(), e, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteLine renders e, appends a newline and writes the result to w with
// a single Write call. The caller serializes access to w.
func (b *Base) WriteLine(w io.Writer, e *core.Event) (int, error) {
	buf := formatter.GetBuffer()
	defer formatter.PutBuffer(buf)
	if err := formatter.AppendEvent(b.Formatter(), e, buf); err != nil {
		return 0, err
	}
	buf.WriteByte('\n')
	return w.Write(buf.Bytes())
}
