// Package logger is the public API of nlogconf. Most users only need to
// import this package.
//
// A Logger is immutable after construction. Its name, threshold and
// ordered appender list are set once, by the Builder or by a Registry
// preparing a parsed configuration, and never modified. This makes Logger
// safe for concurrent use without any locking on the read path.
//
// Messages are templates with positional {} placeholders filled from the
// arguments. A trailing error argument becomes the event's error when no
// error is passed explicitly:
//
//	log := logger.Get("net")
//	log.Info("connected to {} in {}", addr, elapsed)
//	log.Warn("retrying {}", addr, err)     // err is the event error
//	log.ErrorErr(err, "giving up on {}", addr)
//
// Every call, including the IsXEnabled queries, passes through the same
// threshold check: an event is emitted when its level is at or above the
// logger's level in the order TRACE < DEBUG < INFO < WARN < ERROR.
//
// A Registry maps logger names to Loggers and falls back to the root logger
// for unknown names. Prepare builds the complete new mapping before
// publishing it, so concurrent Get calls never see a partial rebuild.
// Loggers obtained before a Prepare keep the appenders of the old
// configuration; those are closed once the new one is published, so long
// lived callers should fetch their logger again or use NewSlogHandler,
// which resolves through the registry on every record.
//
// The package initializes a default Registry in init() whose root logger
// writes to stdout at DEBUG. The package-level functions Get, Info, Warn,
// etc. delegate to it.
package logger
