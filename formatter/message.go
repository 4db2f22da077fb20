package formatter

import (
	"bytes"

	"github.com/philipp01105/nlogconf/core"
)

// MessageFormatter renders only the raw message template. Placeholders
// are left as they are.
type MessageFormatter struct{}

// NewMessageFormatter creates a new raw message formatter
func NewMessageFormatter() *MessageFormatter {
	return &MessageFormatter{}
}

// Format returns the raw message of e
func (MessageFormatter) Format(e *core.Event) ([]byte, error) {
	return []byte(e.Message), nil
}

// FormatEvent writes the raw message of e into buf
func (MessageFormatter) FormatEvent(e *core.Event, buf *bytes.Buffer) {
	buf.WriteString(e.Message)
}
