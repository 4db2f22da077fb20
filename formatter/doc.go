// Package formatter defines how log events are rendered into bytes.
//
// The Formatter interface returns a []byte per event. BufferFormatter is
// an optional extension that renders into a caller-provided
// bytes.Buffer; appenders check for it and prefer it, which lets them
// render, append the trailing newline and write with a single Write call
// on a pooled buffer.
//
// PatternFormatter is the configurable layout used by appender encoders.
// Its pattern is a plain string in which the tokens %level, %message,
// %marker, %date, %timestamp and %logger are replaced literally, in that
// order. A throwable attached to the event is always appended on a new
// line. Positional "{}" placeholders are then filled left to right from
// the event arguments.
//
// MessageFormatter renders the raw message template only and is the
// behavior of an appender that has no encoder.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
