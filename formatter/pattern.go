package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/philipp01105/nlogconf/core"
)

// DateLayout is the layout of the %date token (MM-dd-yyyy HH:mm:ss,SSS).
const DateLayout = "01-02-2006 15:04:05,000"

// Pattern tokens, replaced in declaration order.
const (
	TokenLevel     = "%level"
	TokenMessage   = "%message"
	TokenMarker    = "%marker"
	TokenDate      = "%date"
	TokenTimestamp = "%timestamp"
	TokenLogger    = "%logger"
)

const placeholder = "{}"

// Config holds common formatter configuration
type Config struct {
	// TimestampFormat specifies the %date layout (empty for DateLayout)
	TimestampFormat string
	// Location is the zone %date is rendered in (nil for time.Local)
	Location *time.Location
}

// PatternFormatter renders events through a fixed pattern string. It is
// stateless apart from the pattern and safe for concurrent use.
type PatternFormatter struct {
	pattern string
	Config
}

// NewPatternFormatter creates a new pattern formatter
func NewPatternFormatter(pattern string, cfg Config) *PatternFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = DateLayout
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &PatternFormatter{pattern: pattern, Config: cfg}
}

// Pattern returns the pattern string
func (f *PatternFormatter) Pattern() string {
	return f.pattern
}

// Format renders e through the pattern
func (f *PatternFormatter) Format(e *core.Event) ([]byte, error) {
	return []byte(f.render(e)), nil
}

// FormatEvent renders e through the pattern into buf
func (f *PatternFormatter) FormatEvent(e *core.Event, buf *bytes.Buffer) {
	buf.WriteString(f.render(e))
}

func (f *PatternFormatter) render(e *core.Event) string {
	s := f.pattern
	s = replaceToken(s, TokenLevel, e.Level.String)
	s = replaceToken(s, TokenMessage, func() string { return e.Message })
	s = replaceToken(s, TokenMarker, func() string { return core.FormatMarkers(e.Markers) })
	s = replaceToken(s, TokenDate, func() string {
		return e.Time.In(f.Location).Format(f.TimestampFormat)
	})
	s = replaceToken(s, TokenTimestamp, func() string {
		return strconv.FormatInt(e.Timestamp(), 10)
	})
	s = replaceToken(s, TokenLogger, func() string { return e.LoggerName })

	if e.Err != nil {
		s += "\n" + fmt.Sprintf("%+v", e.Err)
	}

	for _, arg := range e.Arguments {
		s = strings.Replace(s, placeholder, FormatArgument(arg), 1)
	}
	return s
}

// replaceToken replaces every occurrence of token, computing the value
// only when the token is present.
func replaceToken(s, token string, value func() string) string {
	if !strings.Contains(s, token) {
		return s
	}
	return strings.ReplaceAll(s, token, value())
}

// FormatArgument renders one positional argument. A nil argument renders
// as "null".
func FormatArgument(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
