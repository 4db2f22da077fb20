package config

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/formatter"
	"github.com/philipp01105/nlogconf/internal/status"
)

// Element and attribute names of the document
const (
	TagConfiguration = "configuration"
	TagAppender      = "appender"
	TagEncoder       = "encoder"
	TagPattern       = "pattern"
	TagLogger        = "logger"
	TagRoot          = "root"
	TagAppenderRef   = "appender-ref"

	AttrName  = "name"
	AttrClass = "class"
	AttrLevel = "level"
	AttrRef   = "ref"
)

// Option configures Parse
type Option func(*options)

type options struct {
	registry     *Registry
	env          Env
	status       *zap.Logger
	defaultLevel core.Level
	formatter    formatter.Config
}

// WithRegistry sets the appender class registry (default: NewRegistry())
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithEnv sets the collaborators appenders are built with
func WithEnv(env Env) Option {
	return func(o *options) { o.env = env }
}

// WithStatusLogger sets the logger that receives parse diagnostics
func WithStatusLogger(l *zap.Logger) Option {
	return func(o *options) { o.status = l }
}

// WithDefaultLevel sets the threshold of loggers that name no level
func WithDefaultLevel(l core.Level) Option {
	return func(o *options) { o.defaultLevel = l }
}

// WithFormatterConfig sets the date layout and zone of pattern encoders
func WithFormatterConfig(cfg formatter.Config) Option {
	return func(o *options) { o.formatter = cfg }
}

// Parse reads a configuration document from r. On error every appender
// built so far is closed and no Set is returned.
//
// Appenders that implement appender.Opener, such as file appenders, are
// returned unopened: no file is rotated or created until the Set is
// activated with appender.OpenAll, which logger.Registry.Prepare does.
func Parse(r io.Reader, opts ...Option) (Set, error) {
	o := options{defaultLevel: core.DefaultLevel}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = NewRegistry()
	}
	o.env = o.env.withDefaults()
	o.status = status.OrDefault(o.status)

	p := &parser{
		d:         xml.NewDecoder(r),
		opts:      o,
		log:       o.status,
		loggers:   NewSet(o.defaultLevel),
		appenders: map[string]appender.Appender{},
		paths:     map[string]string{},
	}
	if err := p.parse(); err != nil {
		if closeErr := appender.CloseAll(p.built); closeErr != nil {
			p.log.Warn("closing appenders after failed parse", zap.Error(closeErr))
		}
		return nil, err
	}
	p.closeUnreferenced()
	return p.loggers, nil
}

// ParseBytes reads a configuration document from data
func ParseBytes(data []byte, opts ...Option) (Set, error) {
	return Parse(bytes.NewReader(data), opts...)
}

// ParseFS reads the configuration document name from fsys
func ParseFS(fsys fs.FS, name string, opts ...Option) (Set, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, opts...)
}

type parser struct {
	d    *xml.Decoder
	opts options
	log  *zap.Logger

	loggers   Set
	appenders map[string]appender.Appender
	built     []appender.Named
	paths     map[string]string // file path -> appender name
}

func (p *parser) parseErr(err error) error {
	return &ParseError{Offset: p.d.InputOffset(), Err: err}
}

// next returns the next token. Running out of input is always an error
// because next is only called while an element is open.
func (p *parser) next() (xml.Token, error) {
	tok, err := p.d.Token()
	if err == io.EOF {
		return nil, p.parseErr(ErrUnexpectedEOF)
	}
	if err != nil {
		var syn *xml.SyntaxError
		if errors.As(err, &syn) && strings.Contains(syn.Msg, "unexpected EOF") {
			return nil, p.parseErr(fmt.Errorf("%w: %v", ErrUnexpectedEOF, err))
		}
		return nil, p.parseErr(err)
	}
	return tok, nil
}

func (p *parser) parse() error {
	for {
		tok, err := p.d.Token()
		if err == io.EOF {
			return p.parseErr(fmt.Errorf("no <%s> element found", TagConfiguration))
		}
		if err != nil {
			return p.parseErr(err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			if !is(start.Name, TagConfiguration) {
				return p.parseErr(fmt.Errorf("root element is <%s>, want <%s>", start.Name.Local, TagConfiguration))
			}
			return p.configuration(start)
		}
	}
}

func (p *parser) configuration(start xml.StartElement) error {
	return p.children(start, func(child xml.StartElement) error {
		switch {
		case is(child.Name, TagAppender):
			return p.appender(child)
		case is(child.Name, TagLogger):
			return p.logger(child)
		case is(child.Name, TagRoot):
			return p.root(child)
		default:
			return p.unsupported(start, child)
		}
	})
}

func (p *parser) appender(start xml.StartElement) error {
	name, ok := attr(start, AttrName)
	if !ok || name == "" {
		return &ConfigError{Element: TagAppender, Msg: "name attribute is required"}
	}
	class, ok := attr(start, AttrClass)
	if !ok || class == "" {
		class = DefaultClass
	}
	factory, ok := p.opts.registry.Lookup(class)
	if !ok {
		return &ConfigError{Element: TagAppender, Msg: fmt.Sprintf("appender %q has unknown class %q", name, class)}
	}

	props := NewProperties()
	var pattern *string
	err := p.children(start, func(child xml.StartElement) error {
		if is(child.Name, TagEncoder) {
			return p.encoder(child, &pattern)
		}
		text, err := p.text(child)
		if err != nil {
			return err
		}
		props.Set(child.Name.Local, text)
		return nil
	})
	if err != nil {
		return err
	}

	a, err := factory(name, props, p.opts.env)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			return err
		}
		return &AppenderError{Name: name, Err: err}
	}
	if err := p.claimPath(name, a); err != nil {
		_ = a.Close()
		return err
	}
	if pattern != nil {
		a.SetFormatter(formatter.NewPatternFormatter(*pattern, p.opts.formatter))
	}
	for _, key := range props.Unused() {
		p.log.Warn("ignoring unknown appender property",
			zap.String("appender", name), zap.String("class", class), zap.String("property", key))
	}

	if _, dup := p.appenders[name]; dup {
		p.log.Warn("appender declared twice, later references use the new one", zap.String("appender", name))
	}
	p.appenders[name] = a
	p.built = append(p.built, appender.Named{Name: name, Appender: a})
	return nil
}

// claimPath rejects a second appender writing to the file of an earlier one.
// Opening both would rotate the first one's file out from under it.
func (p *parser) claimPath(name string, a appender.Appender) error {
	f, ok := a.(interface{ Path() string })
	if !ok {
		return nil
	}
	path := f.Path()
	if owner, taken := p.paths[path]; taken {
		return &ConfigError{Element: TagAppender,
			Msg: fmt.Sprintf("appender %q writes to %s, already used by appender %q", name, path, owner)}
	}
	p.paths[path] = name
	return nil
}

func (p *parser) encoder(start xml.StartElement, pattern **string) error {
	return p.children(start, func(child xml.StartElement) error {
		if !is(child.Name, TagPattern) {
			return p.unsupported(start, child)
		}
		text, err := p.text(child)
		if err != nil {
			return err
		}
		*pattern = &text
		return nil
	})
}

func (p *parser) logger(start xml.StartElement) error {
	name, ok := attr(start, AttrName)
	if !ok {
		return &ConfigError{Element: TagLogger, Msg: "name attribute is required"}
	}
	cfg := NewLoggerConfig(name, p.opts.defaultLevel)
	p.loggers[name] = cfg
	p.level(start, cfg)
	return p.refs(start, cfg)
}

func (p *parser) root(start xml.StartElement) error {
	cfg := p.loggers.Root()
	p.level(start, cfg)
	return p.refs(start, cfg)
}

func (p *parser) level(start xml.StartElement, cfg *LoggerConfig) {
	text, ok := attr(start, AttrLevel)
	if !ok {
		return
	}
	if !cfg.SetLevel(text) {
		p.log.Warn("unknown level, keeping current threshold",
			zap.String("logger", cfg.Name), zap.String("level", text), zap.Stringer("threshold", cfg.Level))
	}
}

// refs attaches the appender-ref children of start to cfg in order
func (p *parser) refs(start xml.StartElement, cfg *LoggerConfig) error {
	return p.children(start, func(child xml.StartElement) error {
		if !is(child.Name, TagAppenderRef) {
			return p.unsupported(start, child)
		}
		ref, _ := attr(child, AttrRef)
		if a, ok := p.appenders[ref]; ok {
			cfg.Appenders = append(cfg.Appenders, appender.Named{Name: ref, Appender: a})
		} else {
			p.log.Warn("dropping reference to undeclared appender",
				zap.String("logger", cfg.Name), zap.String("ref", ref))
		}
		return p.skip()
	})
}

// children calls visit for every child element of start. visit must
// consume the child up to and including its end tag. children returns
// after consuming the end tag of start.
func (p *parser) children(start xml.StartElement, visit func(xml.StartElement) error) error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := visit(t); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name != start.Name {
				return p.parseErr(fmt.Errorf("</%s> closes <%s>", t.Name.Local, start.Name.Local))
			}
			return nil
		}
	}
}

// text returns the trimmed character data of the element opened by start.
// Nested elements are skipped.
func (p *parser) text(start xml.StartElement) (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.next()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if err := p.unsupported(start, t); err != nil {
				return "", err
			}
		case xml.EndElement:
			return strings.TrimSpace(sb.String()), nil
		}
	}
}

func (p *parser) unsupported(parent, child xml.StartElement) error {
	p.log.Warn("skipping unsupported element",
		zap.String("parent", parent.Name.Local), zap.String("element", child.Name.Local))
	return p.skip()
}

// skip consumes tokens up to the end tag matching the start tag that was
// just read.
func (p *parser) skip() error {
	depth := 1
	for depth > 0 {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// closeUnreferenced closes appenders that no logger references
func (p *parser) closeUnreferenced() {
	used := make(map[appender.Appender]struct{})
	for _, c := range p.loggers {
		for _, a := range c.Appenders {
			used[a.Appender] = struct{}{}
		}
	}
	var unused []appender.Named
	for _, a := range p.built {
		if _, ok := used[a.Appender]; !ok {
			unused = append(unused, a)
		}
	}
	if len(unused) == 0 {
		return
	}
	for _, a := range unused {
		p.log.Info("closing unreferenced appender", zap.String("appender", a.Name))
	}
	if err := appender.CloseAll(unused); err != nil {
		p.log.Warn("closing unreferenced appenders", zap.Error(err))
	}
}

// is reports whether n is the plain, unprefixed element name local
func is(n xml.Name, local string) bool {
	return n.Space == "" && n.Local == local
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
