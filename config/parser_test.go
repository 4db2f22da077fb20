package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/nlogconf/appender"
	"github.com/philipp01105/nlogconf/appender/fileappender"
	"github.com/philipp01105/nlogconf/core"
	"github.com/philipp01105/nlogconf/internal/status"
)

// recorders is a registry whose "recorder" class hands out appender.Recorder
// instances that the test can inspect afterwards.
type recorders struct {
	*Registry
	built map[string]*appender.Recorder
}

func newRecorders() *recorders {
	r := &recorders{Registry: NewRegistry(), built: map[string]*appender.Recorder{}}
	r.Register("recorder", func(name string, _ *Properties, _ Env) (appender.Appender, error) {
		rec := appender.NewRecorder()
		r.built[name] = rec
		return rec, nil
	})
	return r
}

func parse(t *testing.T, doc string, opts ...Option) (Set, error) {
	t.Helper()
	opts = append([]Option{WithStatusLogger(zap.NewNop())}, opts...)
	return ParseBytes([]byte(doc), opts...)
}

func event(msg string) *core.Event {
	return core.NewEvent(time.Unix(0, 0), core.ErrorLevel, "test", msg, nil, nil, nil)
}

func TestParse_MalformedDocuments(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantEOF bool
	}{
		{"empty", "", false},
		{"wrong root", "<feed>", false},
		{"wrong root closed", "<feed></feed>", false},
		{"unterminated root", "<configuration>", true},
		{"unterminated child", `<configuration><logger name="a">`, true},
		{"unterminated skipped element", "<configuration><foo><bar>", true},
		{"unterminated pattern", `<configuration><appender name="A" class="nop"><encoder><pattern>%message`, true},
		{"mismatched end tag", "<configuration><root></logger></configuration>", false},
		{"broken markup", "<configuration><root</configuration>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := parse(t, tt.doc)
			if set != nil {
				t.Errorf("Parse() returned a set on error: %v", set)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if tt.wantEOF && !errors.Is(err, ErrUnexpectedEOF) {
				t.Errorf("Parse() error = %v, want ErrUnexpectedEOF", err)
			}
		})
	}
}

func TestParse_EmptyConfigurationHasRoot(t *testing.T) {
	for _, doc := range []string{"<configuration />", "<?xml version=\"1.0\"?>\n<configuration></configuration>"} {
		set, err := parse(t, doc)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", doc, err)
		}
		if len(set) != 1 || set.Root() == nil {
			t.Fatalf("Parse(%q) = %v, want only root", doc, set)
		}
		if set.Root().Level != core.DebugLevel || len(set.Root().Appenders) != 0 {
			t.Errorf("root = %+v, want DEBUG without appenders", set.Root())
		}
	}
}

func TestParse_RootLevel(t *testing.T) {
	tests := []struct {
		attr string
		want core.Level
	}{
		{`level="WARN"`, core.WarnLevel},
		{`level="error"`, core.ErrorLevel},
		{`level="Trace"`, core.TraceLevel},
		{`level="LOUD"`, core.DebugLevel},
		{``, core.DebugLevel},
	}
	for _, tt := range tests {
		set, err := parse(t, fmt.Sprintf("<configuration><root %s/></configuration>", tt.attr))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if got := set.Root().Level; got != tt.want {
			t.Errorf("root %s: level = %v, want %v", tt.attr, got, tt.want)
		}
	}
}

func TestParse_DefaultLevelOption(t *testing.T) {
	set, err := parse(t, `<configuration><logger name="a"/></configuration>`, WithDefaultLevel(core.InfoLevel))
	if err != nil {
		t.Fatal(err)
	}
	if set.Root().Level != core.InfoLevel || set["a"].Level != core.InfoLevel {
		t.Errorf("levels = %v / %v, want INFO", set.Root().Level, set["a"].Level)
	}
}

func TestParse_RefsKeepOrderAndDuplicates(t *testing.T) {
	reg := newRecorders()
	set, err := parse(t, `
<configuration>
  <appender name="A" class="recorder"/>
  <appender name="B" class="recorder"/>
  <logger name="app" level="INFO">
    <appender-ref ref="A"/>
    <appender-ref ref="B"/>
    <appender-ref ref="A"/>
  </logger>
  <root>
    <appender-ref ref="B"/>
  </root>
</configuration>`, WithRegistry(reg.Registry))
	if err != nil {
		t.Fatal(err)
	}

	app := set["app"]
	if app == nil {
		t.Fatal("missing logger app")
	}
	if got := strings.Join(app.AppenderNames(), ","); got != "A,B,A" {
		t.Errorf("app appenders = %s, want A,B,A", got)
	}
	if app.Appenders[0].Appender != app.Appenders[2].Appender {
		t.Error("both references to A should share one appender")
	}
	if app.Appenders[0].Appender != reg.built["A"] || set.Root().Appenders[0].Appender != reg.built["B"] {
		t.Error("references should resolve to the declared appenders")
	}
	if app.Level != core.InfoLevel {
		t.Errorf("app level = %v, want INFO", app.Level)
	}
}

func TestParse_UndeclaredAndForwardRefsAreDropped(t *testing.T) {
	var buf bytes.Buffer
	reg := newRecorders()
	set, err := ParseBytes([]byte(`
<configuration>
  <root>
    <appender-ref ref="LATER"/>
    <appender-ref ref="MISSING"/>
  </root>
  <appender name="LATER" class="recorder"/>
  <logger name="x">
    <appender-ref ref="LATER"/>
  </logger>
</configuration>`), WithRegistry(reg.Registry), WithStatusLogger(status.New(&buf, zapcore.DebugLevel)))
	if err != nil {
		t.Fatal(err)
	}

	if n := len(set.Root().Appenders); n != 0 {
		t.Errorf("root has %d appenders, want 0", n)
	}
	if got := set["x"].AppenderNames(); len(got) != 1 || got[0] != "LATER" {
		t.Errorf("x appenders = %v, want [LATER]", got)
	}
	if !strings.Contains(buf.String(), "undeclared appender") || !strings.Contains(buf.String(), "MISSING") {
		t.Errorf("expected a warning about MISSING, got %q", buf.String())
	}
}

func TestParse_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		element string
	}{
		{"logger without name", `<configuration><logger level="INFO"/></configuration>`, TagLogger},
		{"appender without name", `<configuration><appender class="nop"/></configuration>`, TagAppender},
		{"appender with empty name", `<configuration><appender name="" class="nop"/></configuration>`, TagAppender},
		{"unknown class", `<configuration><appender name="A" class="com.example.Missing"/></configuration>`, TagAppender},
		{"bad maxFiles", `<configuration><appender name="F" class="file"><maxFiles>many</maxFiles></appender></configuration>`, "maxFiles"},
		{"zero maxFiles", `<configuration><appender name="F" class="file"><maxFiles>0</maxFiles></appender></configuration>`, "maxFiles"},
		{"bad console target", `<configuration><appender name="C"><target>printer</target></appender></configuration>`, "target"},
	}

	env := Env{Fs: afero.NewMemMapFs(), Resolver: fileappender.StaticResolver("/data")}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.doc, WithEnv(env))
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Parse() error = %v, want *ConfigError", err)
			}
			if cerr.Element != tt.element {
				t.Errorf("ConfigError.Element = %q, want %q", cerr.Element, tt.element)
			}
		})
	}
}

func TestParse_FailedAppenderClosesEarlierOnes(t *testing.T) {
	reg := newRecorders()
	boom := errors.New("disk on fire")
	reg.Register("broken", func(string, *Properties, Env) (appender.Appender, error) {
		return nil, boom
	})

	_, err := parse(t, `
<configuration>
  <appender name="OK" class="recorder"/>
  <appender name="BAD" class="broken"/>
  <root><appender-ref ref="OK"/></root>
</configuration>`, WithRegistry(reg.Registry))

	var aerr *AppenderError
	if !errors.As(err, &aerr) || aerr.Name != "BAD" || !errors.Is(err, boom) {
		t.Fatalf("Parse() error = %v, want AppenderError for BAD wrapping boom", err)
	}
	if err := reg.built["OK"].Append(event("x")); !errors.Is(err, appender.ErrClosed) {
		t.Errorf("appender OK should be closed, Append() = %v", err)
	}
}

func TestParse_UnreferencedAppenderIsClosed(t *testing.T) {
	reg := newRecorders()
	_, err := parse(t, `
<configuration>
  <appender name="USED" class="recorder"/>
  <appender name="IDLE" class="recorder"/>
  <root><appender-ref ref="USED"/></root>
</configuration>`, WithRegistry(reg.Registry))
	if err != nil {
		t.Fatal(err)
	}

	if err := reg.built["IDLE"].Append(event("x")); !errors.Is(err, appender.ErrClosed) {
		t.Errorf("IDLE should be closed, Append() = %v", err)
	}
	if err := reg.built["USED"].Append(event("x")); err != nil {
		t.Errorf("USED should stay open, Append() = %v", err)
	}
}

func TestParse_UnsupportedElementsAreSkipped(t *testing.T) {
	var buf bytes.Buffer
	reg := newRecorders()
	set, err := ParseBytes([]byte(`
<configuration>
  <feed>
    <appender name="HIDDEN" class="recorder"/>
    <nested><deeper><root level="ERROR"/></deeper></nested>
  </feed>
  <appender name="A" class="recorder">
    <encoder>
      <layout><pattern>ignored</pattern></layout>
      <pattern>[%level] %message</pattern>
    </encoder>
  </appender>
  <root level="INFO">
    <filter><appender-ref ref="A"/></filter>
    <appender-ref ref="HIDDEN"/>
    <appender-ref ref="A"/>
  </root>
</configuration>`), WithRegistry(reg.Registry), WithStatusLogger(status.New(&buf, zapcore.DebugLevel)))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := reg.built["HIDDEN"]; ok {
		t.Error("appender inside an unsupported element must not be built")
	}
	if set.Root().Level != core.InfoLevel {
		t.Errorf("root level = %v, want INFO", set.Root().Level)
	}
	if got := set.Root().AppenderNames(); len(got) != 1 || got[0] != "A" {
		t.Errorf("root appenders = %v, want [A]", got)
	}

	_ = reg.built["A"].Append(event("hi"))
	if lines := reg.built["A"].Lines(); len(lines) != 1 || lines[0] != "[ERROR] hi" {
		t.Errorf("lines = %v, want [[ERROR] hi]", lines)
	}

	for _, tag := range []string{"feed", "layout", "filter"} {
		if !strings.Contains(buf.String(), tag) {
			t.Errorf("expected a warning for <%s>, got %q", tag, buf.String())
		}
	}
}

func TestParse_ConsoleTargetAndProperties(t *testing.T) {
	var stdout, stderr, diag bytes.Buffer
	set, err := ParseBytes([]byte(`
<configuration>
  <appender name="OUT"><encoder><pattern>out %message</pattern></encoder></appender>
  <appender name="ERR" class="Console">
    <target> stderr </target>
    <colour>always</colour>
    <encoder><pattern>err %message</pattern></encoder>
  </appender>
  <root>
    <appender-ref ref="OUT"/>
    <appender-ref ref="ERR"/>
  </root>
</configuration>`),
		WithEnv(Env{Stdout: &stdout, Stderr: &stderr}),
		WithStatusLogger(status.New(&diag, zapcore.DebugLevel)))
	if err != nil {
		t.Fatal(err)
	}
	defer set.Close()

	for _, a := range set.Root().Appenders {
		if err := a.Appender.Append(event("hi")); err != nil {
			t.Fatal(err)
		}
	}
	if stdout.String() != "out hi\n" || stderr.String() != "err hi\n" {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}
	if !strings.Contains(diag.String(), "colour") {
		t.Errorf("expected a warning for the unknown property, got %q", diag.String())
	}
}

func TestParseFS_Testdata(t *testing.T) {
	fs := afero.NewMemMapFs()
	var stderr bytes.Buffer
	set, err := ParseFS(os.DirFS("testdata"), "logger-config.xml",
		WithEnv(Env{Fs: fs, Stderr: &stderr}),
		WithStatusLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("ParseFS() error = %v", err)
	}
	defer set.Close()

	tests := []struct {
		logger    string
		level     core.Level
		appenders string
	}{
		{"root", core.WarnLevel, "CONSOLE"},
		{"net", core.InfoLevel, "FILE"},
		{"db", core.ErrorLevel, "CONSOLE,FILE"},
	}
	for _, tt := range tests {
		c := set[tt.logger]
		if c == nil {
			t.Fatalf("missing logger %s", tt.logger)
		}
		if c.Level != tt.level || strings.Join(c.AppenderNames(), ",") != tt.appenders {
			t.Errorf("%s = %v %v, want %v %s", tt.logger, c.Level, c.AppenderNames(), tt.level, tt.appenders)
		}
	}

	if ok, _ := afero.Exists(fs, "/storage/logs/app.log"); ok {
		t.Error("parsing must not create /storage/logs/app.log")
	}
	if err := appender.OpenAll(set.Appenders()); err != nil {
		t.Fatalf("OpenAll() error = %v", err)
	}
	if ok, _ := afero.Exists(fs, "/storage/logs/app.log"); !ok {
		t.Error("opening the file appender should create /storage/logs/app.log")
	}

	_ = set["db"].Appenders[1].Appender.Append(core.NewEvent(time.UnixMilli(1700000000123), core.ErrorLevel, "db", "lost {}", []any{"conn"}, nil, nil))
	data, _ := afero.ReadFile(fs, "/storage/logs/app.log")
	if string(data) != "1700000000123 ERROR  lost conn\n" {
		t.Errorf("file = %q", data)
	}
}

func TestParse_FileAppendersMustNotShareAFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/data/logs/log.txt", []byte("live\n"), 0644)
	doc := `<configuration>
  <appender name="A" class="file"/>
  <appender name="B" class="file"><maxFiles>2</maxFiles></appender>
</configuration>`

	_, err := ParseBytes([]byte(doc),
		WithEnv(Env{Fs: fs, Resolver: fileappender.StaticResolver("/data")}),
		WithStatusLogger(zap.NewNop()))

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || !strings.Contains(cfgErr.Msg, `"A"`) {
		t.Fatalf("Parse() error = %v, want ConfigError naming A", err)
	}
	if ok, _ := afero.Exists(fs, "/data/logs/log1.txt"); ok {
		t.Error("a rejected document rotated the live file")
	}
}

func TestParseFS_MissingFile(t *testing.T) {
	_, err := ParseFS(os.DirFS("testdata"), "absent.xml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFS() error = %v, want ErrNotExist", err)
	}
}

func TestRegistry_Classes(t *testing.T) {
	got := strings.Join(NewRegistry().Classes(), ",")
	if got != "console,file,nop,platform" {
		t.Errorf("Classes() = %s", got)
	}
	if _, ok := NewRegistry().Lookup("FILE"); !ok {
		t.Error("Lookup should ignore case")
	}
}

func TestProperties(t *testing.T) {
	p := NewProperties()
	p.Set("a", "1")
	p.Set("b", "x")
	p.Set("a", "2")

	if n, err := p.Int("a", 0); err != nil || n != 2 {
		t.Errorf("Int(a) = (%d, %v), want 2", n, err)
	}
	if n, err := p.Int("missing", 7); err != nil || n != 7 {
		t.Errorf("Int(missing) = (%d, %v), want default 7", n, err)
	}
	if _, err := p.Int("b", 0); err == nil {
		t.Error("Int(b) should fail")
	}
	p2 := NewProperties()
	p2.Set("x", "")
	p2.Set("y", "")
	p2.Lookup("y")
	if got := p2.Unused(); len(got) != 1 || got[0] != "x" {
		t.Errorf("Unused() = %v, want [x]", got)
	}
}
