package logger

import (
	"io"
	"testing"

	"go.uber.org/zap"

	"github.com/philipp01105/nlogconf/appender/consoleappender"
	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/formatter"
)

func benchLogger(level core.Level) *Logger {
	console := consoleappender.NewConsoleAppender(consoleappender.ConsoleConfig{
		Writer:    io.Discard,
		Formatter: formatter.NewPatternFormatter("%date [%level] %logger: %message", formatter.Config{}),
	})
	return NewBuilder("bench").
		WithLevel(level).
		WithAppender("CONSOLE", console).
		WithStatusLogger(zap.NewNop()).
		Build()
}

// BenchmarkInfoNoArgs benchmarks Info() with a plain message using a discard writer.
func BenchmarkInfoNoArgs(b *testing.B) {
	log := benchLogger(InfoLevel)
	defer log.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		log.Info("test message")
	}
}

// BenchmarkInfoWith2Args benchmarks Info() with two placeholders.
func BenchmarkInfoWith2Args(b *testing.B) {
	log := benchLogger(InfoLevel)
	defer log.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		log.Info("user {} logged in from {}", "alice", "10.0.0.1")
	}
}

// BenchmarkFilteredDebug benchmarks a call below the threshold.
func BenchmarkFilteredDebug(b *testing.B) {
	log := benchLogger(InfoLevel)
	defer log.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		log.Debug("debug message {}", i)
	}
}

// BenchmarkInfoParallel benchmarks concurrent Info() calls on one appender.
func BenchmarkInfoParallel(b *testing.B) {
	log := benchLogger(InfoLevel)
	defer log.Close()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			log.Info("parallel message")
		}
	})
}
