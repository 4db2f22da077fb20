package logger

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/config"
	"github.com/philipp01105/nlogconf/internal/status"
)

// ErrNoRoot is the panic value of Get on a registry without a root logger
var ErrNoRoot = errors.New("logger: registry has no root logger")

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithCoarseClock makes every prepared logger use the coarse clock
func WithCoarseClock(enabled bool) RegistryOption {
	return func(r *Registry) { r.coarse = enabled }
}

// WithRegistryStatusLogger sets the status logger of prepared loggers
func WithRegistryStatusLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) { r.status = l }
}

// WithRegistryErrorHandler sets the appender error handler of prepared loggers
func WithRegistryErrorHandler(h appender.ErrorHandler) RegistryOption {
	return func(r *Registry) { r.onError = h }
}

// snapshot is one published generation of the registry
type snapshot struct {
	loggers map[string]*Logger
	set     config.Set
}

// Registry maps logger names to Loggers
type Registry struct {
	coarse  bool
	status  *zap.Logger
	onError appender.ErrorHandler

	mu   sync.Mutex // serializes Prepare and Close
	snap atomic.Pointer[snapshot]
}

// NewRegistry creates an empty registry. Get panics until Prepare has run.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	r.status = status.OrDefault(r.status)
	return r
}

// Prepare opens the appenders of set, builds one Logger per entry and
// publishes them together. Appenders of the previous configuration that
// set does not reuse are closed after the switch. If an appender fails to
// open, the previous configuration stays published and the appenders only
// set references are closed.
func (r *Registry) Prepare(set config.Set) error {
	if set.Root() == nil {
		return ErrNoRoot
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var current config.Set
	if prev := r.snap.Load(); prev != nil {
		current = prev.set
	}
	if err := appender.OpenAll(set.Appenders()); err != nil {
		return multierr.Append(err, appender.CloseAll(retired(set, current)))
	}

	next := &snapshot{loggers: make(map[string]*Logger, len(set)), set: set}
	for name, c := range set {
		next.loggers[name] = NewBuilder(name).
			WithLevel(c.Level).
			WithAppenders(c.Appenders...).
			WithCoarseClock(r.coarse).
			WithErrorHandler(r.onError).
			WithStatusLogger(r.status).
			Build()
	}

	prev := r.snap.Swap(next)
	if prev == nil {
		return nil
	}
	return appender.CloseAll(retired(prev.set, set))
}

// retired returns the appenders of prev that next no longer references
func retired(prev, next config.Set) []appender.Named {
	keep := make(map[appender.Appender]struct{})
	for _, a := range next.Appenders() {
		keep[a.Appender] = struct{}{}
	}
	var out []appender.Named
	for _, a := range prev.Appenders() {
		if _, ok := keep[a.Appender]; !ok {
			out = append(out, a)
		}
	}
	return out
}

// Get returns the logger named name, or the root logger when there is none.
// It panics with ErrNoRoot if the registry was never prepared.
func (r *Registry) Get(name string) *Logger {
	snap := r.snap.Load()
	if snap == nil {
		panic(ErrNoRoot)
	}
	if l, ok := snap.loggers[name]; ok {
		return l
	}
	root, ok := snap.loggers[config.RootName]
	if !ok {
		panic(ErrNoRoot)
	}
	return root
}

// Lookup returns the logger named name without falling back to root
func (r *Registry) Lookup(name string) (*Logger, bool) {
	snap := r.snap.Load()
	if snap == nil {
		return nil, false
	}
	l, ok := snap.loggers[name]
	return l, ok
}

// Prepared reports whether Prepare has published a configuration
func (r *Registry) Prepared() bool {
	return r.snap.Load() != nil
}

// Names returns the configured logger names, sorted
func (r *Registry) Names() []string {
	snap := r.snap.Load()
	if snap == nil {
		return nil
	}
	names := make([]string, 0, len(snap.loggers))
	for n := range snap.loggers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close closes every appender of the current configuration. The registry
// keeps serving the loggers, whose appenders then report ErrClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.set.Close()
}
