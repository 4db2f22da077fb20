package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/nlogconf/appender/fileappender"
	"github.com/philipp01105/nlogconf/config"
	"github.com/philipp01105/nlogconf/internal/status"
	"github.com/philipp01105/nlogconf/logger"
)

// DefaultDebounce is the quiet period Watch waits for before reloading
const DefaultDebounce = 50 * time.Millisecond

// ErrWatchUnsupported is returned by Watch when the configuration is not
// read from the operating system's file system.
var ErrWatchUnsupported = errors.New("provider: watch needs an OS file system")

// Option configures a Provider
type Option func(*Provider)

// WithEnv sets the collaborators appenders are built with. The Fs is also
// used to read the configuration file.
func WithEnv(env config.Env) Option {
	return func(p *Provider) { p.env = env }
}

// WithAsset reads the configuration document name from fsys instead of
// the configured file, e.g. an embed.FS holding assets/logger-config.xml.
func WithAsset(fsys fs.FS, name string) Option {
	return func(p *Provider) {
		p.asset = fsys
		p.assetName = name
	}
}

// WithStatusLogger sets the logger for the runtime's own diagnostics
func WithStatusLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.status = l }
}

// WithAppenderRegistry sets the appender class registry used when parsing
func WithAppenderRegistry(r *config.Registry) Option {
	return func(p *Provider) { p.classes = r }
}

// WithDebounce sets the quiet period of Watch
func WithDebounce(d time.Duration) Option {
	return func(p *Provider) { p.debounce = d }
}

// Provider loads the configuration document and keeps a Registry prepared
// from it.
type Provider struct {
	settings  Settings
	env       config.Env
	asset     fs.FS
	assetName string
	status    *zap.Logger
	classes   *config.Registry
	debounce  time.Duration
	registry  *logger.Registry

	mu     sync.Mutex // serializes loads
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a provider. Nothing is loaded until Initialize.
func New(s Settings, opts ...Option) *Provider {
	p := &Provider{settings: s, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(p)
	}
	if p.status == nil {
		p.status = status.New(os.Stderr, s.statusLevel())
	}
	if p.env.Fs == nil {
		p.env.Fs = afero.NewOsFs()
	}
	if p.env.Resolver == nil && s.StorageDir != "" {
		p.env.Resolver = fileappender.StaticResolver(s.StorageDir)
	}
	if p.classes == nil {
		p.classes = config.NewRegistry()
	}
	p.registry = logger.NewRegistry(
		logger.WithCoarseClock(s.CoarseClock),
		logger.WithRegistryStatusLogger(p.status),
	)
	return p
}

// Open creates a provider, initializes it, installs its registry as the
// logger package default and starts watching when Settings.Watch is set.
// The returned error reports a failed load; the provider is usable with
// the fallback configuration in that case.
func Open(s Settings, opts ...Option) (*Provider, error) {
	p := New(s, opts...)
	err := p.Initialize()
	logger.SetDefault(p.registry)
	if s.Watch && p.asset == nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.done = make(chan struct{})
		go func() {
			defer close(p.done)
			if werr := p.Watch(ctx); werr != nil {
				p.status.Warn("config watch stopped", zap.Error(werr))
			}
		}()
	}
	return p, err
}

// Registry returns the registry the provider prepares
func (p *Provider) Registry() *logger.Registry {
	return p.registry
}

// Settings returns the settings the provider was created with
func (p *Provider) Settings() Settings {
	return p.settings
}

// Initialize loads the document and prepares the registry. A missing
// document installs the fallback configuration without error. Any other
// failure installs the fallback configuration and returns the error.
func (p *Provider) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, err := p.load()
	if errors.Is(err, fs.ErrNotExist) {
		p.status.Info("no logging configuration found, using fallback", zap.String("source", p.source()))
		return p.prepareFallback()
	}
	if err != nil {
		p.status.Error("failed to load logging configuration, using fallback",
			zap.String("source", p.source()), zap.Error(err))
		return multierr.Append(err, p.prepareFallback())
	}
	if err := p.registry.Prepare(set); err != nil {
		p.status.Error("failed to activate logging configuration, using fallback",
			zap.String("source", p.source()), zap.Error(err))
		return multierr.Append(err, p.prepareFallback())
	}
	return nil
}

// Reload loads the document again. On failure the current configuration
// stays in place.
func (p *Provider) Reload() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, err := p.load()
	if err != nil {
		p.status.Warn("reload failed, keeping current configuration",
			zap.String("source", p.source()), zap.Error(err))
		return err
	}
	if err := p.registry.Prepare(set); err != nil {
		p.status.Warn("reload failed, keeping current configuration",
			zap.String("source", p.source()), zap.Error(err))
		return err
	}
	p.status.Info("logging configuration reloaded", zap.String("source", p.source()))
	return nil
}

func (p *Provider) prepareFallback() error {
	return p.registry.Prepare(logger.Fallback(p.settings.fallbackLevel(), p.env.Stdout))
}

func (p *Provider) source() string {
	if p.asset != nil {
		return p.assetName
	}
	return p.settings.ConfigFile
}

func (p *Provider) parseOptions() []config.Option {
	return []config.Option{
		config.WithRegistry(p.classes),
		config.WithEnv(p.env),
		config.WithStatusLogger(p.status),
	}
}

func (p *Provider) load() (config.Set, error) {
	if p.asset != nil {
		return config.ParseFS(p.asset, p.assetName, p.parseOptions()...)
	}
	f, err := p.env.Fs.Open(p.settings.ConfigFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return config.Parse(f, p.parseOptions()...)
}

// Watch reloads the configuration file whenever it is written or replaced,
// until ctx is done. Bursts of events are collapsed into one reload.
// Watch only works when Env.Fs is an *afero.OsFs; any other file system
// returns ErrWatchUnsupported.
func (p *Provider) Watch(ctx context.Context) error {
	if p.asset != nil {
		return fmt.Errorf("provider: cannot watch asset %s", p.assetName)
	}
	if _, ok := p.env.Fs.(*afero.OsFs); !ok {
		return fmt.Errorf("%w, got %s", ErrWatchUnsupported, p.env.Fs.Name())
	}
	path, err := filepath.Abs(p.settings.ConfigFile)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounceTimer.Reset(p.debounce)

		case <-debounceTimer.C:
			if !pending {
				continue
			}
			pending = false
			_ = p.Reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.status.Warn("config watcher error", zap.Error(err))
		}
	}
}

// Close stops watching and closes the appenders of the current configuration
func (p *Provider) Close() error {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
	return p.registry.Close()
}
