// Package consoleappender provides the console appender, which writes one
// line per event to stdout, stderr or any io.Writer.
//
// Each event is rendered into a pooled buffer together with its trailing
// newline and written with a single Write call. Writes are serialized on a
// mutex unless the writer is known to be safe for concurrent use
// (*os.File, io.Discard, or ConsoleConfig.ConcurrentWriter).
package consoleappender
