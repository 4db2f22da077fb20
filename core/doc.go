// Package core defines the shared types used across the runtime.
//
// It provides the Level type for threshold filtering, the Event type that
// represents a single log call after it passed the threshold gate, and the
// Marker type that call sites attach to events.
//
// Levels form a total order TRACE < DEBUG < INFO < WARN < ERROR. A logger
// emits an event only when the event level is at or above its threshold.
//
// An Event is built once per accepted log call and is never modified
// afterwards. Appenders receive it synchronously and must not keep the
// Arguments slice past the Append call.
package core
