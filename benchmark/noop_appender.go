// Package benchmark compares nlogconf with other Go logging libraries.
package benchmark

import (
	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/core"
)

// noopAppender renders nothing and only touches the message, isolating
// the cost of the logger itself.
type noopAppender struct {
	appender.Base
}

func newNoopAppender() appender.Appender {
	return &noopAppender{}
}

func (a *noopAppender) Append(e *core.Event) error {
	_ = len(e.Message)
	return nil
}

func (a *noopAppender) Close() error {
	return nil
}
