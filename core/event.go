package core

import (
	"slices"
	"time"
)

// Event represents a single accepted log call with all its metadata
type Event struct {
	Time       time.Time
	Level      Level
	LoggerName string
	// Message is the raw template; "{}" placeholders are substituted by
	// formatters, never by the logger.
	Message   string
	Arguments []any
	Markers   []*Marker
	// Err is the throwable attached to the call, either passed explicitly
	// or lifted from the trailing argument.
	Err error
	// ThreadName is optional; Go exposes no goroutine names so it is only
	// set by adapters that carry one.
	ThreadName string
}

// NewEvent builds an Event. The arguments and markers slices are copied so
// later changes by the caller are not observed by appenders.
func NewEvent(t time.Time, level Level, loggerName, msg string, args []any, markers []*Marker, err error) *Event {
	return &Event{
		Time:       t,
		Level:      level,
		LoggerName: loggerName,
		Message:    msg,
		Arguments:  slices.Clone(args),
		Markers:    slices.Clone(markers),
		Err:        err,
	}
}

// Timestamp returns the event time as Unix milliseconds.
func (e *Event) Timestamp() int64 {
	return e.Time.UnixMilli()
}

// FirstMarker returns the first marker attached to the event, or nil.
func (e *Event) FirstMarker() *Marker {
	if len(e.Markers) == 0 {
		return nil
	}
	return e.Markers[0]
}
