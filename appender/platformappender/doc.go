// Package platformappender forwards events to the host system log.
//
// The host log is a write-only string sink with five priority buckets.
// Every event is tagged with the name of its first marker, or with the
// appender's default tag ("None" unless configured).
package platformappender
