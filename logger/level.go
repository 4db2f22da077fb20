package logger

import "github.com/philipp01105/nlogconf/core"

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	TraceLevel = core.TraceLevel
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
)

// ParseLevel converts a string to a Level. Unknown text yields DebugLevel.
func ParseLevel(s string) Level {
	l, _ := core.ParseLevel(s)
	return l
}
