package fileappender

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/formatter"
)

// Defaults applied by NewFileAppender
const (
	DefaultPrefix    = "log"
	DefaultExtension = ".txt"
	DefaultMaxFiles  = 6

	// LogsDir is the directory below the storage directory holding the files
	LogsDir = "logs"
)

// FileConfig holds configuration for the file appender
type FileConfig struct {
	// Fs is the file system to write to (default: afero.NewOsFs())
	Fs afero.Fs
	// Resolver supplies the storage directory. Directory takes precedence.
	Resolver Resolver
	// Directory is a fixed storage directory
	Directory string
	// Prefix of the log file name (default: "log")
	Prefix string
	// Extension of the log file name (default: ".txt"). A missing dot is added.
	Extension string
	// MaxFiles is the number of files kept after rotation (default: 6)
	MaxFiles int
	// Formatter to use (default: none, the raw message is written)
	Formatter formatter.Formatter
	// Deferred leaves rotation and opening to Open
	Deferred bool
}

// FileAppender writes events to the current file of a numbered rotation set
type FileAppender struct {
	appender.Base

	fs       afero.Fs
	dir      string
	prefix   string
	ext      string
	maxFiles int
	stats    *appender.Stats

	mu        sync.Mutex
	file      afero.File
	bufWriter *bufio.Writer
	closed    bool
}

// NewFileAppender resolves the storage directory, rotates the existing
// files and opens a fresh current file. With cfg.Deferred the appender
// touches no files until Open.
func NewFileAppender(cfg FileConfig) (*FileAppender, error) {
	cfg = withDefaults(cfg)
	if cfg.MaxFiles < 1 {
		return nil, fmt.Errorf("fileappender: maxFiles must be at least 1, got %d", cfg.MaxFiles)
	}

	storage, err := cfg.Resolver.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	a := &FileAppender{
		fs:       cfg.Fs,
		dir:      filepath.Join(storage, LogsDir),
		prefix:   cfg.Prefix,
		ext:      cfg.Extension,
		maxFiles: cfg.MaxFiles,
		stats:    appender.NewStats(),
	}
	a.SetFormatter(cfg.Formatter)

	if cfg.Deferred {
		return a, nil
	}
	if err := a.Open(); err != nil {
		return nil, err
	}
	return a, nil
}

// Open creates the logs directory, rotates the existing files and opens a
// fresh current file. Open on an open appender is a no-op; a closed
// appender cannot be reopened.
func (a *FileAppender) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return appender.ErrClosed
	}
	if a.file != nil {
		return nil
	}
	if err := a.fs.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := Rotate(a.fs, a.dir, a.prefix, a.ext, a.maxFiles); err != nil {
		return err
	}
	return a.open()
}

func withDefaults(cfg FileConfig) FileConfig {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Directory != "" {
		cfg.Resolver = StaticResolver(cfg.Directory)
	}
	if cfg.Resolver == nil {
		cfg.Resolver = UserCacheResolver("nlog")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	cfg.Extension = NormalizeExtension(cfg.Extension)
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = DefaultMaxFiles
	}
	return cfg
}

// NormalizeExtension returns ext with a leading dot, or DefaultExtension
// when ext is empty.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// open opens the current file for append. a.mu must be held.
func (a *FileAppender) open() error {
	f, err := a.fs.OpenFile(a.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.file = f
	a.bufWriter = bufio.NewWriter(f)
	return nil
}

// Path returns the path of the current file
func (a *FileAppender) Path() string {
	return filepath.Join(a.dir, NumberedName(a.prefix, a.ext, 0))
}

// Dir returns the logs directory
func (a *FileAppender) Dir() string {
	return a.dir
}

// Append writes e followed by a newline and flushes
func (a *FileAppender) Append(e *core.Event) error {
	err := a.write(e)
	a.stats.Record(e.Level, err)
	return err
}

func (a *FileAppender) write(e *core.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return appender.ErrClosed
	}
	if _, err := a.WriteLine(a.bufWriter, e); err != nil {
		return err
	}
	return a.bufWriter.Flush()
}

// Stats returns a snapshot of the current statistics
func (a *FileAppender) Stats() appender.Snapshot {
	return a.stats.GetSnapshot()
}

// Close flushes and closes the current file
func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if a.file == nil {
		return nil
	}
	flushErr := a.bufWriter.Flush()
	closeErr := a.file.Close()
	a.file = nil
	a.bufWriter = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
