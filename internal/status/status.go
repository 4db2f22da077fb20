// Package status provides the diagnostic logger the runtime reports its
// own conditions to: skipped tags, dropped references, appender failures
// and reload outcomes.
package status

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w at level and above
func New(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	})
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), level)).Named("nlog")
}

// Default returns the stderr status logger at WARN
func Default() *zap.Logger {
	return New(os.Stderr, zapcore.WarnLevel)
}

// OrDefault returns l, or Default when l is nil
func OrDefault(l *zap.Logger) *zap.Logger {
	if l == nil {
		return Default()
	}
	return l
}
