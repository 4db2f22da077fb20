package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/philipp01105/nlogconf/core"
)

// SlogHandler is an adapter that implements slog.Handler on top of a
// Registry. The logger is looked up on every call, so records follow
// configuration reloads.
type SlogHandler struct {
	registry *Registry
	name     string
	attrs    []slog.Attr
	group    string
}

// NewSlogHandler creates a slog.Handler that logs through the logger name of r
func NewSlogHandler(r *Registry, name string) *SlogHandler {
	return &SlogHandler{registry: r, name: name}
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.registry.Get(s.name).Enabled(slogLevelToCore(level))
}

// Handle renders the record attributes as key=value pairs after the
// message. The first error-valued attribute becomes the event error.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	l := s.registry.Get(s.name)
	level := slogLevelToCore(record.Level)
	if record.Message == "" || !l.Enabled(level) {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(record.Message)
	var err error
	add := func(group string, a slog.Attr) {
		a.Value = a.Value.Resolve()
		if e, ok := a.Value.Any().(error); ok && err == nil && a.Value.Kind() == slog.KindAny {
			err = e
			return
		}
		writeAttr(&sb, group, a)
	}
	for _, a := range s.attrs {
		add("", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		add(s.group, a)
		return true
	})

	return l.emit(record.Time, level, nil, err, sb.String(), nil)
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	newAttrs := make([]slog.Attr, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		if s.group != "" {
			a.Key = s.group + "." + a.Key
		}
		newAttrs = append(newAttrs, a)
	}
	return &SlogHandler{registry: s.registry, name: s.name, attrs: newAttrs, group: s.group}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	return &SlogHandler{registry: s.registry, name: s.name, attrs: s.attrs, group: newGroup}
}

// writeAttr appends " key=value", flattening groups into dotted keys
func writeAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		if key == "" {
			key = group
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, key, ga)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteByte('=')
	switch a.Value.Kind() {
	case slog.KindString:
		sb.WriteString(a.Value.String())
	case slog.KindTime:
		sb.WriteString(a.Value.Time().Format(time.RFC3339Nano))
	default:
		fmt.Fprint(sb, a.Value.Any())
	}
}

// slogLevelToCore converts a slog.Level to a core.Level.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}
