package platformappender

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/core"
)

// Priority is a host log bucket
type Priority int8

const (
	Verbose Priority = iota
	Debug
	Info
	Warn
	Error
)

var priorityNames = [...]string{"V", "D", "I", "W", "E"}

// String returns the single letter name of the bucket
func (p Priority) String() string {
	if p < Verbose || p > Error {
		return "?"
	}
	return priorityNames[p]
}

// PriorityOf maps a level onto its bucket. Unknown levels go to Verbose.
func PriorityOf(l core.Level) Priority {
	switch l {
	case core.ErrorLevel:
		return Error
	case core.WarnLevel:
		return Warn
	case core.InfoLevel:
		return Info
	case core.DebugLevel:
		return Debug
	default:
		return Verbose
	}
}

// DefaultTag is used for events without markers
const DefaultTag = "None"

// Log is the host system log
type Log interface {
	Write(p Priority, tag, msg string)
}

// LogFunc adapts a function to the Log interface
type LogFunc func(p Priority, tag, msg string)

// Write calls f
func (f LogFunc) Write(p Priority, tag, msg string) {
	f(p, tag, msg)
}

// PlatformConfig holds configuration for the platform appender
type PlatformConfig struct {
	// Log receives the rendered messages (default: NewZapLog(zap.L()))
	Log Log
	// Tag used when an event carries no marker (default: "None")
	Tag string
}

// PlatformAppender writes rendered events to a host Log
type PlatformAppender struct {
	appender.Base

	log   Log
	tag   string
	stats *appender.Stats

	mu     sync.RWMutex
	closed bool
}

// NewPlatformAppender creates a new platform appender
func NewPlatformAppender(cfg PlatformConfig) *PlatformAppender {
	if cfg.Log == nil {
		cfg.Log = NewZapLog(zap.L())
	}
	if cfg.Tag == "" {
		cfg.Tag = DefaultTag
	}
	return &PlatformAppender{
		log:   cfg.Log,
		tag:   cfg.Tag,
		stats: appender.NewStats(),
	}
}

// Tag returns the tag for e
func (a *PlatformAppender) Tag(e *core.Event) string {
	if m := e.FirstMarker(); m != nil {
		return m.Name()
	}
	return a.tag
}

// Append renders e and writes it to the bucket of its level
func (a *PlatformAppender) Append(e *core.Event) error {
	err := a.write(e)
	a.stats.Record(e.Level, err)
	return err
}

func (a *PlatformAppender) write(e *core.Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return appender.ErrClosed
	}

	msg, err := a.Render(e)
	if err != nil {
		return err
	}
	a.log.Write(PriorityOf(e.Level), a.Tag(e), msg)
	return nil
}

// Stats returns a snapshot of the current statistics
func (a *PlatformAppender) Stats() appender.Snapshot {
	return a.stats.GetSnapshot()
}

// Close stops the appender
func (a *PlatformAppender) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return nil
}

// zapLog writes to a zap logger, one entry per message
type zapLog struct {
	l *zap.Logger
}

// NewZapLog returns a Log backed by l. Verbose has no zap counterpart and
// is written at debug level.
func NewZapLog(l *zap.Logger) Log {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLog{l: l}
}

func (z *zapLog) Write(p Priority, tag, msg string) {
	if ce := z.l.Check(zapLevel(p), msg); ce != nil {
		ce.Write(zap.String("tag", tag), zap.Stringer("priority", p))
	}
}

func zapLevel(p Priority) zapcore.Level {
	switch p {
	case Error:
		return zapcore.ErrorLevel
	case Warn:
		return zapcore.WarnLevel
	case Info:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
