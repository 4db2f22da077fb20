package config

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is wrapped by a ParseError when the document ends inside
// an open element.
var ErrUnexpectedEOF = errors.New("unexpected end of document")

// ParseError reports a malformed document
type ParseError struct {
	Offset int64 // input offset where the error was detected
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: invalid document at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigError reports a well-formed but semantically invalid document
type ConfigError struct {
	Element string
	Msg     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: <%s>: %s", e.Element, e.Msg)
}

// AppenderError reports an appender that could not be constructed
type AppenderError struct {
	Name string
	Err  error
}

func (e *AppenderError) Error() string {
	return fmt.Sprintf("config: appender %q: %v", e.Name, e.Err)
}

func (e *AppenderError) Unwrap() error {
	return e.Err
}
