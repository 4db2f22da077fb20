// Package appender provides the Appender interface and the pieces shared
// by its implementations.
//
// An Appender accepts events synchronously and writes them to its
// destination. It owns at most one Formatter (the encoder of the
// configuration document); without one it writes the raw message text.
//
// Built-in appenders live in sub-packages:
//
//   - consoleappender writes lines to stdout, stderr or any io.Writer.
//   - fileappender writes to a numbered, rotated log file.
//   - platformappender forwards to the host's severity-bucketed system log.
//
// This package also provides Nop, which discards everything, and
// Recorder, which keeps events in memory for tests.
//
// Multi fans one event out to an ordered list of named appenders. Every
// appender is attempted even when an earlier one fails or panics; each
// failure is reported to an ErrorHandler and the combined error is
// returned.
package appender
