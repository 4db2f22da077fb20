package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/appender/consoleappender"
	"github.com/philipp01105/nlogconf/appender/fileappender"
	"github.com/philipp01105/nlogconf/appender/platformappender"
)

// Built-in appender classes
const (
	ClassConsole  = "console"
	ClassFile     = "file"
	ClassPlatform = "platform"
	ClassNop      = "nop"

	// DefaultClass is used when an appender has no class attribute
	DefaultClass = ClassConsole
)

// Env carries the collaborators appenders are built with
type Env struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Fs       afero.Fs
	Resolver fileappender.Resolver
	Platform platformappender.Log
}

func (e Env) withDefaults() Env {
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}
	if e.Resolver == nil {
		e.Resolver = fileappender.UserCacheResolver("nlog")
	}
	return e
}

// Properties are the simple text children of an appender element, in
// document order. Lookups mark a property as used.
type Properties struct {
	keys   []string
	values map[string]string
	used   map[string]bool
}

// NewProperties returns an empty property set
func NewProperties() *Properties {
	return &Properties{values: map[string]string{}, used: map[string]bool{}}
}

// Set stores a property. A repeated key keeps its first position and
// the last value.
func (p *Properties) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Lookup returns the value of key
func (p *Properties) Lookup(key string) (string, bool) {
	v, ok := p.values[key]
	if ok {
		p.used[key] = true
	}
	return v, ok
}

// Int returns key parsed as an integer, or def when key is absent
func (p *Properties) Int(key string, def int) (int, error) {
	v, ok := p.Lookup(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ConfigError{Element: key, Msg: fmt.Sprintf("%q is not an integer", v)}
	}
	return n, nil
}

// Unused returns the keys that were never looked up, in document order
func (p *Properties) Unused() []string {
	var out []string
	for _, k := range p.keys {
		if !p.used[k] {
			out = append(out, k)
		}
	}
	return out
}

// Factory builds an appender of one class
type Factory func(name string, props *Properties, env Env) (appender.Appender, error)

// Registry maps appender class names to factories
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in classes
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}}
	r.Register(ClassConsole, newConsole)
	r.Register(ClassFile, newFile)
	r.Register(ClassPlatform, newPlatform)
	r.Register(ClassNop, newNop)
	return r
}

// Register adds or replaces the factory of class. Class names are case-insensitive.
func (r *Registry) Register(class string, f Factory) {
	r.factories[strings.ToLower(class)] = f
}

// Lookup returns the factory of class
func (r *Registry) Lookup(class string) (Factory, bool) {
	f, ok := r.factories[strings.ToLower(class)]
	return f, ok
}

// Classes returns the registered class names, sorted
func (r *Registry) Classes() []string {
	out := make([]string, 0, len(r.factories))
	for c := range r.factories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func newConsole(_ string, props *Properties, env Env) (appender.Appender, error) {
	w := env.Stdout
	if target, ok := props.Lookup("target"); ok {
		std, err := consoleappender.ParseTarget(target)
		if err != nil {
			return nil, &ConfigError{Element: "target", Msg: err.Error()}
		}
		if std == os.Stderr {
			w = env.Stderr
		}
	}
	return consoleappender.NewConsoleAppender(consoleappender.ConsoleConfig{Writer: w}), nil
}

func newFile(_ string, props *Properties, env Env) (appender.Appender, error) {
	cfg := fileappender.FileConfig{Fs: env.Fs, Resolver: env.Resolver, Deferred: true}
	if dir, ok := props.Lookup("directory"); ok {
		cfg.Directory = strings.TrimSpace(dir)
	}
	if prefix, ok := props.Lookup("prefix"); ok {
		cfg.Prefix = strings.TrimSpace(prefix)
	}
	if ext, ok := props.Lookup("extension"); ok {
		cfg.Extension = ext
	}
	maxFiles, err := props.Int("maxFiles", fileappender.DefaultMaxFiles)
	if err != nil {
		return nil, err
	}
	if maxFiles < 1 {
		return nil, &ConfigError{Element: "maxFiles", Msg: fmt.Sprintf("must be at least 1, got %d", maxFiles)}
	}
	cfg.MaxFiles = maxFiles
	return fileappender.NewFileAppender(cfg)
}

func newPlatform(_ string, props *Properties, env Env) (appender.Appender, error) {
	cfg := platformappender.PlatformConfig{Log: env.Platform}
	if tag, ok := props.Lookup("tag"); ok {
		cfg.Tag = strings.TrimSpace(tag)
	}
	return platformappender.NewPlatformAppender(cfg), nil
}

func newNop(string, *Properties, Env) (appender.Appender, error) {
	return appender.NewNop(), nil
}
