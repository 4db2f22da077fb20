package core

import "strings"

// Level represents the severity level of a log event
type Level int8

const (
	// TraceLevel for very fine grained diagnostics
	TraceLevel Level = iota
	// DebugLevel for detailed debugging information (default threshold)
	DebugLevel
	// InfoLevel for general informational messages
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
)

// DefaultLevel is the threshold of a logger whose configuration does not
// name a level.
const DefaultLevel = DebugLevel

var levelNames = [...]string{
	TraceLevel: "TRACE",
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

// String returns the string representation of the level
func (l Level) String() string {
	if l.Valid() {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool {
	return l >= TraceLevel && l <= ErrorLevel
}

// Enabled reports whether an event at level l passes a logger whose
// threshold is threshold.
func (l Level) Enabled(threshold Level) bool {
	return l >= threshold
}

// ParseLevel maps level text to a Level, ignoring case. The second result
// is false when the text names no known level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TraceLevel, true
	case "DEBUG":
		return DebugLevel, true
	case "INFO":
		return InfoLevel, true
	case "WARN":
		return WarnLevel, true
	case "ERROR":
		return ErrorLevel, true
	default:
		return DefaultLevel, false
	}
}

// Levels returns all levels in ascending order.
func Levels() []Level {
	return []Level{TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel}
}
