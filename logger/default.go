package logger

import (
	"io"
	"os"
	"sync"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/appender/consoleappender"
	"github.com/philipp01105/nlogconf/config"
	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/formatter"
)

// FallbackPattern is the pattern of the fallback console appender
const FallbackPattern = "%date [%level] %logger: %message"

// FallbackAppender is the name the fallback console appender is declared under
const FallbackAppender = "CONSOLE"

var (
	defaultRegistry *Registry
	defaultMu       sync.RWMutex
)

func init() {
	defaultRegistry = NewRegistry()
	_ = defaultRegistry.Prepare(Fallback(core.DefaultLevel, os.Stdout))
}

// Fallback returns a configuration holding only a root logger at level
// that writes to w through a console appender.
func Fallback(level core.Level, w io.Writer) config.Set {
	set := config.NewSet(level)
	console := consoleappender.NewConsoleAppender(consoleappender.ConsoleConfig{
		Writer:    w,
		Formatter: formatter.NewPatternFormatter(FallbackPattern, formatter.Config{}),
	})
	set.Root().Appenders = []appender.Named{{Name: FallbackAppender, Appender: console}}
	return set
}

// Default returns the default registry
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry
}

// SetDefault sets the default registry
func SetDefault(r *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = r
}

// Get returns the named logger of the default registry
func Get(name string) *Logger {
	return Default().Get(name)
}

// Root returns the root logger of the default registry
func Root() *Logger {
	return Default().Get(config.RootName)
}

// Package-level convenience functions using the root logger

// Trace logs a trace message using the root logger
func Trace(msg string, args ...any) {
	Root().Trace(msg, args...)
}

// Debug logs a debug message using the root logger
func Debug(msg string, args ...any) {
	Root().Debug(msg, args...)
}

// Info logs an info message using the root logger
func Info(msg string, args ...any) {
	Root().Info(msg, args...)
}

// Warn logs a warning message using the root logger
func Warn(msg string, args ...any) {
	Root().Warn(msg, args...)
}

// Error logs an error message using the root logger
func Error(msg string, args ...any) {
	Root().Error(msg, args...)
}
