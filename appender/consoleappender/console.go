package consoleappender

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/formatter"
)

// Target names accepted by ParseTarget
const (
	TargetStdout = "stdout"
	TargetStderr = "stderr"
)

// ParseTarget maps a target name to the matching standard stream.
func ParseTarget(name string) (io.Writer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", TargetStdout, "system.out":
		return os.Stdout, nil
	case TargetStderr, "system.err":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("unknown console target %q", name)
	}
}

// isConcurrentSafeWriter returns true if the writer is known to be safe for
// concurrent Write calls, allowing the appender to skip write-level locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// ConsoleConfig holds configuration for the console appender
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: none, the raw message is written)
	Formatter formatter.Formatter
	// ConcurrentWriter indicates the Writer supports concurrent Write calls.
	// Automatically detected for io.Discard and *os.File.
	ConcurrentWriter bool
}

// ConsoleAppender writes rendered events to an io.Writer, one per line
type ConsoleAppender struct {
	appender.Base

	writer         io.Writer
	concurrentSafe bool
	stats          *appender.Stats

	mu     sync.Mutex // serializes writes to non concurrent-safe writers
	closed bool
}

// NewConsoleAppender creates a new console appender
func NewConsoleAppender(cfg ConsoleConfig) *ConsoleAppender {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	a := &ConsoleAppender{
		writer:         cfg.Writer,
		concurrentSafe: cfg.ConcurrentWriter || isConcurrentSafeWriter(cfg.Writer),
		stats:          appender.NewStats(),
	}
	a.SetFormatter(cfg.Formatter)
	return a
}

// Append writes e followed by a newline
func (a *ConsoleAppender) Append(e *core.Event) error {
	err := a.write(e)
	a.stats.Record(e.Level, err)
	return err
}

func (a *ConsoleAppender) write(e *core.Event) error {
	if a.concurrentSafe {
		if a.isClosed() {
			return appender.ErrClosed
		}
		_, err := a.WriteLine(a.writer, e)
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return appender.ErrClosed
	}
	_, err := a.WriteLine(a.writer, e)
	return err
}

func (a *ConsoleAppender) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Stats returns a snapshot of the current statistics
func (a *ConsoleAppender) Stats() appender.Snapshot {
	return a.stats.GetSnapshot()
}

// Close stops the appender. The underlying writer is left open; standard
// streams are owned by the process.
func (a *ConsoleAppender) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return nil
}
