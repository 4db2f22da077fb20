package config

import (
	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/core"
)

// RootName is the name of the logger every lookup falls back to
const RootName = "root"

// LoggerConfig is the parsed configuration of one logger
type LoggerConfig struct {
	Name  string
	Level core.Level
	// Appenders in dispatch order. The same appender may appear more than once.
	Appenders []appender.Named
}

// NewLoggerConfig returns a config for name at level with no appenders
func NewLoggerConfig(name string, level core.Level) *LoggerConfig {
	return &LoggerConfig{Name: name, Level: level}
}

// SetLevel sets the level from its text. Unknown text keeps the current level.
func (c *LoggerConfig) SetLevel(text string) bool {
	l, ok := core.ParseLevel(text)
	if ok {
		c.Level = l
	}
	return ok
}

// AppenderNames returns the appender names in dispatch order
func (c *LoggerConfig) AppenderNames() []string {
	names := make([]string, len(c.Appenders))
	for i, a := range c.Appenders {
		names[i] = a.Name
	}
	return names
}

// Set is the result of a parse, keyed by logger name. It always holds the
// root logger.
type Set map[string]*LoggerConfig

// NewSet returns a Set holding only the root logger at level
func NewSet(level core.Level) Set {
	return Set{RootName: NewLoggerConfig(RootName, level)}
}

// Root returns the root logger configuration
func (s Set) Root() *LoggerConfig {
	return s[RootName]
}

// Appenders returns the appender references of every logger in the set
func (s Set) Appenders() []appender.Named {
	var all []appender.Named
	for _, c := range s {
		all = append(all, c.Appenders...)
	}
	return all
}

// Close closes every appender referenced by the set once
func (s Set) Close() error {
	return appender.CloseAll(s.Appenders())
}
