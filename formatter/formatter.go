package formatter

import (
	"bytes"
	"sync"

	"github.com/philipp01105/nlogconf/core"
)

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format renders a log event into bytes
	Format(e *core.Event) ([]byte, error)
}

// BufferFormatter is an optional interface that formatters can implement
// to render directly into a caller-provided buffer, avoiding an
// intermediate byte slice.
type BufferFormatter interface {
	// FormatEvent renders a log event into the given buffer.
	FormatEvent(e *core.Event, buf *bytes.Buffer)
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

// GetBuffer returns an empty buffer from the shared pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the shared pool.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// AppendEvent renders e with f into buf. A nil formatter renders the raw
// message, which is the fallback of appenders without an encoder.
func AppendEvent(f Formatter, e *core.Event, buf *bytes.Buffer) error {
	switch bf := f.(type) {
	case nil:
		buf.WriteString(e.Message)
		return nil
	case BufferFormatter:
		bf.FormatEvent(e, buf)
		return nil
	}
	data, err := f.Format(e)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
