package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/internal/status"
)

// Logger is the main logging interface (immutable)
type Logger struct {
	name  string
	level core.Level
	out   *appender.Multi
	now   func() time.Time
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	name      string
	level     core.Level
	appenders []appender.Named
	coarse    bool
	onError   appender.ErrorHandler
	status    *zap.Logger
}

// NewBuilder creates a new logger builder
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		level: core.DefaultLevel,
	}
}

// WithLevel sets the log level
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithAppender attaches an appender. Appenders receive events in the
// order they were attached.
func (b *Builder) WithAppender(name string, a appender.Appender) *Builder {
	b.appenders = append(b.appenders, appender.Named{Name: name, Appender: a})
	return b
}

// WithAppenders attaches several appenders in order
func (b *Builder) WithAppenders(list ...appender.Named) *Builder {
	b.appenders = append(b.appenders, list...)
	return b
}

// WithCoarseClock timestamps events with the coarse clock
func (b *Builder) WithCoarseClock(enabled bool) *Builder {
	b.coarse = enabled
	return b
}

// WithErrorHandler sets the function that receives appender failures.
// The default reports them to the status logger.
func (b *Builder) WithErrorHandler(h appender.ErrorHandler) *Builder {
	b.onError = h
	return b
}

// WithStatusLogger sets the status logger used by the default error handler
func (b *Builder) WithStatusLogger(l *zap.Logger) *Builder {
	b.status = l
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	onError := b.onError
	if onError == nil {
		onError = reportTo(status.OrDefault(b.status))
	}
	now := time.Now
	if b.coarse {
		core.StartCoarseClock()
		now = core.CoarseNow
	}
	return &Logger{
		name:  b.name,
		level: b.level,
		out:   appender.NewMulti(onError, b.appenders...),
		now:   now,
	}
}

// reportTo returns an error handler writing to the status logger
func reportTo(l *zap.Logger) appender.ErrorHandler {
	return func(name string, e *core.Event, err error) {
		l.Warn("appender failed",
			zap.String("appender", name),
			zap.String("logger", e.LoggerName),
			zap.Stringer("level", e.Level),
			zap.Error(err))
	}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Level returns the threshold
func (l *Logger) Level() core.Level {
	return l.level
}

// Appenders returns the attached appenders in dispatch order
func (l *Logger) Appenders() []appender.Named {
	return l.out.Appenders()
}

// Enabled reports whether an event at level would be emitted
func (l *Logger) Enabled(level core.Level) bool {
	return level.Enabled(l.level)
}

// LogEvent is the single entry point all logging calls go through, and the
// one to use for a call carrying both markers and an explicit error. An
// empty msg or a level below the threshold is a no-op. When err is nil
// and the last argument is an error, that argument becomes the event
// error instead of a positional argument. Appender failures go to the
// logger's error handler.
func (l *Logger) LogEvent(level core.Level, markers []*core.Marker, err error, msg string, args ...any) {
	_ = l.emit(time.Time{}, level, markers, err, msg, args)
}

// emit gates, builds and dispatches one event. A zero t is replaced by the
// logger clock once the gate has passed.
func (l *Logger) emit(t time.Time, level core.Level, markers []*core.Marker, err error, msg string, args []any) error {
	if msg == "" || !l.Enabled(level) {
		return nil
	}
	if t.IsZero() {
		t = l.now()
	}
	args, err = splitError(args, err)
	e := core.NewEvent(t, level, l.name, msg, args, markers, err)
	return l.out.Append(e)
}

// splitError moves a trailing error argument into the error slot when no
// error was given. args is resliced, never modified.
func splitError(args []any, err error) ([]any, error) {
	if err != nil || len(args) == 0 {
		return args, err
	}
	if last, ok := args[len(args)-1].(error); ok {
		return args[: len(args)-1 : len(args)-1], last
	}
	return args, nil
}

func markerList(m *core.Marker) []*core.Marker {
	if m == nil {
		return nil
	}
	return []*core.Marker{m}
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, args ...any) {
	l.LogEvent(level, nil, nil, msg, args...)
}

// IsTraceEnabled reports whether Trace calls are emitted
func (l *Logger) IsTraceEnabled() bool { return l.Enabled(core.TraceLevel) }

// IsDebugEnabled reports whether Debug calls are emitted
func (l *Logger) IsDebugEnabled() bool { return l.Enabled(core.DebugLevel) }

// IsInfoEnabled reports whether Info calls are emitted
func (l *Logger) IsInfoEnabled() bool { return l.Enabled(core.InfoLevel) }

// IsWarnEnabled reports whether Warn calls are emitted
func (l *Logger) IsWarnEnabled() bool { return l.Enabled(core.WarnLevel) }

// IsErrorEnabled reports whether Error calls are emitted
func (l *Logger) IsErrorEnabled() bool { return l.Enabled(core.ErrorLevel) }

// Trace logs a trace message
func (l *Logger) Trace(msg string, args ...any) {
	l.LogEvent(core.TraceLevel, nil, nil, msg, args...)
}

// TraceErr logs a trace message with an error
func (l *Logger) TraceErr(err error, msg string, args ...any) {
	l.LogEvent(core.TraceLevel, nil, err, msg, args...)
}

// TraceMarker logs a trace message tagged with m
func (l *Logger) TraceMarker(m *core.Marker, msg string, args ...any) {
	l.LogEvent(core.TraceLevel, markerList(m), nil, msg, args...)
}

// TraceMarkerErr logs a trace message tagged with m, with an error
func (l *Logger) TraceMarkerErr(m *core.Marker, err error, msg string, args ...any) {
	l.LogEvent(core.TraceLevel, markerList(m), err, msg, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.LogEvent(core.DebugLevel, nil, nil, msg, args...)
}

// DebugErr logs a debug message with an error
func (l *Logger) DebugErr(err error, msg string, args ...any) {
	l.LogEvent(core.DebugLevel, nil, err, msg, args...)
}

// DebugMarker logs a debug message tagged with m
func (l *Logger) DebugMarker(m *core.Marker, msg string, args ...any) {
	l.LogEvent(core.DebugLevel, markerList(m), nil, msg, args...)
}

// DebugMarkerErr logs a debug message tagged with m, with an error
func (l *Logger) DebugMarkerErr(m *core.Marker, err error, msg string, args ...any) {
	l.LogEvent(core.DebugLevel, markerList(m), err, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.LogEvent(core.InfoLevel, nil, nil, msg, args...)
}

// InfoErr logs an info message with an error
func (l *Logger) InfoErr(err error, msg string, args ...any) {
	l.LogEvent(core.InfoLevel, nil, err, msg, args...)
}

// InfoMarker logs an info message tagged with m
func (l *Logger) InfoMarker(m *core.Marker, msg string, args ...any) {
	l.LogEvent(core.InfoLevel, markerList(m), nil, msg, args...)
}

// InfoMarkerErr logs an info message tagged with m, with an error
func (l *Logger) InfoMarkerErr(m *core.Marker, err error, msg string, args ...any) {
	l.LogEvent(core.InfoLevel, markerList(m), err, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.LogEvent(core.WarnLevel, nil, nil, msg, args...)
}

// WarnErr logs a warning message with an error
func (l *Logger) WarnErr(err error, msg string, args ...any) {
	l.LogEvent(core.WarnLevel, nil, err, msg, args...)
}

// WarnMarker logs a warning message tagged with m
func (l *Logger) WarnMarker(m *core.Marker, msg string, args ...any) {
	l.LogEvent(core.WarnLevel, markerList(m), nil, msg, args...)
}

// WarnMarkerErr logs a warning message tagged with m, with an error
func (l *Logger) WarnMarkerErr(m *core.Marker, err error, msg string, args ...any) {
	l.LogEvent(core.WarnLevel, markerList(m), err, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.LogEvent(core.ErrorLevel, nil, nil, msg, args...)
}

// ErrorErr logs an error message with an error
func (l *Logger) ErrorErr(err error, msg string, args ...any) {
	l.LogEvent(core.ErrorLevel, nil, err, msg, args...)
}

// ErrorMarker logs an error message tagged with m
func (l *Logger) ErrorMarker(m *core.Marker, msg string, args ...any) {
	l.LogEvent(core.ErrorLevel, markerList(m), nil, msg, args...)
}

// ErrorMarkerErr logs an error message tagged with m, with an error
func (l *Logger) ErrorMarkerErr(m *core.Marker, err error, msg string, args ...any) {
	l.LogEvent(core.ErrorLevel, markerList(m), err, msg, args...)
}

// Close closes the logger's appenders
func (l *Logger) Close() error {
	return l.out.Close()
}
