package pipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/cache"
	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/layout"
	"github.com/matzehuels/historian/pkg/render/text"
	"github.com/matzehuels/historian/pkg/source"
)

const mergeLog = "M A B#M\nA ROOT#A\nB ROOT#B\nROOT#ROOT\n"

// keyedSource counts loads so cache behaviour can be observed.
type keyedSource struct {
	*source.Reader
	key   string
	loads int
}

func (k *keyedSource) Load(ctx context.Context, opts source.Options) ([]history.Record, error) {
	k.loads++
	return k.Reader.Load(ctx, opts)
}

func (k *keyedSource) CacheKey(context.Context, source.Options) (string, error) {
	return k.key, nil
}

func newKeyed(data string) *keyedSource {
	return &keyedSource{Reader: source.Bytes("fixture", []byte(data)), key: "v1"}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"dot", false},
		{"xdot", false},
		{"svg", true},
		{"json", false},
		{"png", true},
		{"TEXT", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if opts.Engine != layout.EngineGrid || opts.Format != FormatText || opts.Width != 1 {
		t.Errorf("defaults = engine %q format %q width %d", opts.Engine, opts.Format, opts.Width)
	}
	if len(opts.Static) != len(history.DefaultStaticRules) {
		t.Errorf("Static defaults to %d rules, want %d", len(opts.Static), len(history.DefaultStaticRules))
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"engine", Options{Engine: "spiral"}, errors.ErrCodeInvalidEngine},
		{"format", Options{Format: "png"}, errors.ErrCodeInvalidInput},
		{"limit", Options{Limit: -1}, errors.ErrCodeInvalidInput},
		{"static", Options{Static: []history.StaticRule{{Pattern: "(", Column: 0}}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}

	opts := Options{}
	if err := opts.ValidateForLoad(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ValidateForLoad() without a source: %v", err)
	}
}

func TestParseDebug(t *testing.T) {
	tests := []struct {
		in   string
		want Debug
	}{
		{"", 0},
		{"0", 0},
		{"9", DebugHeads | DebugRows},
		{"0x30", DebugColumns | DebugLayout},
		{"rows,columns", DebugRows | DebugColumns},
		{"Heads, load", DebugHeads | DebugLoad},
		{"all", DebugAll},
	}
	for _, tt := range tests {
		got, err := ParseDebug(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseDebug(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"64", "rows,bogus"} {
		if _, err := ParseDebug(bad); err == nil {
			t.Errorf("ParseDebug(%q) should fail", bad)
		}
	}
	if got := (DebugRows | DebugHeads).String(); got != "heads,rows" {
		t.Errorf("String() = %q", got)
	}
}

func TestDebugLogger(t *testing.T) {
	var buf bytes.Buffer
	base := log.New(&buf)

	Debug(DebugRows).Logger(base, DebugColumns).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("unselected pass logged %q", buf.String())
	}

	Debug(DebugRows).Logger(base, DebugRows).Debug("shown", "commit", "abc")
	out := buf.String()
	if !strings.Contains(out, "rows") || !strings.Contains(out, "shown") {
		t.Errorf("selected pass output = %q", out)
	}
	if base.GetLevel() != log.InfoLevel {
		t.Error("Logger must not change the base level")
	}
}

func TestBuildLayout(t *testing.T) {
	records, err := source.ParseLines(strings.NewReader(mergeLog))
	if err != nil {
		t.Fatal(err)
	}
	l, err := BuildLayout(records, Options{})
	if err != nil {
		t.Fatalf("BuildLayout() error: %v", err)
	}
	if l.Width != 2 || l.Engine != layout.EngineGrid {
		t.Errorf("layout = width %d engine %s, want 2 grid", l.Width, l.Engine)
	}
	if got := l.Store.IDs(l.Order()); strings.Join(got, " ") != "M A B ROOT" {
		t.Errorf("Order() = %v", got)
	}
}

func TestBuildLayoutReduce(t *testing.T) {
	records, err := source.ParseLines(strings.NewReader("C3 C2#c3\nC2 C1#c2\nC1#c1\n"))
	if err != nil {
		t.Fatal(err)
	}
	l, err := BuildLayout(records, Options{Reduce: true})
	if err != nil {
		t.Fatalf("BuildLayout() error: %v", err)
	}
	if l.Store.Len() != 1 {
		t.Fatalf("reduced store has %d nodes, want 1", l.Store.Len())
	}
	if c := l.Store.At(l.First); c.Size != 3 || len(c.Messages) != 3 {
		t.Errorf("chain = size %d messages %v", c.Size, c.Messages)
	}
}

func TestBuildLayoutStatic(t *testing.T) {
	records, err := source.ParseLines(strings.NewReader("B A (tag: r1)#B\nA#A\n"))
	if err != nil {
		t.Fatal(err)
	}
	l, err := BuildLayout(records, Options{})
	if err != nil {
		t.Fatalf("BuildLayout() error: %v", err)
	}
	if l.Pinned != 1 {
		t.Errorf("Pinned = %d, want 1", l.Pinned)
	}
	if c := l.Store.At(l.First); c.Column != 1 {
		t.Errorf("release commit column = %d, want 1", c.Column)
	}
}

func TestBuildLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines string
		opts  Options
		code  errors.Code
	}{
		{"missing parent", "B A#B\n", Options{}, errors.ErrCodeMissingParent},
		{"duplicate", "A#A\nA#A\n", Options{}, errors.ErrCodeDuplicateCommit},
		{"unknown head", "A#A\n", Options{Heads: []string{"Z"}}, errors.ErrCodeUnknownHead},
		{"engine", "A#A\n", Options{Engine: "nope"}, errors.ErrCodeInvalidEngine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := source.ParseLines(strings.NewReader(tt.lines))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := BuildLayout(records, tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("BuildLayout() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExampleLogs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "logs", "*.log"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("no example logs found: %v", err)
	}
	for _, path := range paths {
		for _, engine := range layout.Engines {
			t.Run(filepath.Base(path)+"/"+engine, func(t *testing.T) {
				records, err := source.File(path).Load(context.Background(), source.Options{})
				if err != nil {
					t.Fatalf("Load() error: %v", err)
				}
				l, err := BuildLayout(records, Options{Engine: engine})
				if err != nil {
					t.Fatalf("BuildLayout() error: %v", err)
				}
				if n := len(l.Order()); n != len(records) {
					t.Errorf("%d rows for %d commits", n, len(records))
				}
				for _, h := range l.Order() {
					if c := l.Store.At(h); c.Column < 0 || c.Column >= l.Width {
						t.Errorf("commit %s in column %d of %d", c.ID, c.Column, l.Width)
					}
				}
			})
		}
	}
}

func TestExampleLogStaticColumns(t *testing.T) {
	records, err := source.File(filepath.Join("..", "..", "examples", "logs", "release.log")).Load(context.Background(), source.Options{})
	if err != nil {
		t.Fatal(err)
	}
	l, err := BuildLayout(records, Options{})
	if err != nil {
		t.Fatalf("BuildLayout() error: %v", err)
	}
	if l.Pinned != 3 {
		t.Errorf("Pinned = %d, want 3", l.Pinned)
	}
	for id, want := range map[string]int{"h5": 1, "h3": 0, "h1": 1} {
		h, ok := l.Store.Lookup(id)
		if !ok {
			t.Fatalf("commit %s missing", id)
		}
		if got := l.Store.At(h).Column; got != want {
			t.Errorf("commit %s column = %d, want %d", id, got, want)
		}
	}
}

func TestExecuteText(t *testing.T) {
	r := NewRunner(nil, nil, log.New(&bytes.Buffer{}))
	var out bytes.Buffer
	result, err := r.Execute(context.Background(), &out, Options{
		Source: source.Bytes("fixture", []byte(mergeLog)),
		Color:  text.ColorNever,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := "•   M\n├←• A\n• │ B\n•→┘ ROOT\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}
	if result.Written != int64(len(want)) {
		t.Errorf("Written = %d, want %d", result.Written, len(want))
	}
	if result.Stats.Commits != 4 || result.Stats.Columns != 2 {
		t.Errorf("Stats = %+v", result.Stats)
	}
}

func TestExecuteFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{FormatDOT, "digraph"},
		{FormatJSON, `"commits"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			_, err := NewRunner(nil, nil, nil).Execute(context.Background(), &out, Options{
				Source: source.Bytes("fixture", []byte(mergeLog)),
				Format: tt.format,
			})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestExecuteCaches(t *testing.T) {
	c, err := cache.NewMemoryCache(16)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	src := newKeyed(mergeLog)
	opts := Options{Source: src, Format: FormatJSON}

	var first, second bytes.Buffer
	res1, err := r.Execute(context.Background(), &first, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	res2, err := r.Execute(context.Background(), &second, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if src.loads != 1 {
		t.Errorf("source loaded %d times, want 1", src.loads)
	}
	if res1.CacheInfo.LoadHit || res1.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", res1.CacheInfo)
	}
	if !res2.CacheInfo.LoadHit || !res2.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", res2.CacheInfo)
	}
	if first.String() != second.String() {
		t.Error("cached artifact differs from the rendered one")
	}

	opts.Refresh = true
	if _, err := r.Execute(context.Background(), &bytes.Buffer{}, opts); err != nil {
		t.Fatal(err)
	}
	if src.loads != 2 {
		t.Errorf("Refresh should bypass the cache, loads = %d", src.loads)
	}
}

func TestLoadUnkeyedSourceNotCached(t *testing.T) {
	c, _ := cache.NewMemoryCache(16)
	r := NewRunner(c, nil, nil)
	opts := Options{Source: source.Bytes("fixture", []byte(mergeLog))}
	if _, hit, err := r.LoadWithCacheInfo(context.Background(), opts); err != nil || hit {
		t.Fatalf("first load hit=%v err=%v", hit, err)
	}
	if _, hit, _ := r.LoadWithCacheInfo(context.Background(), opts); hit {
		t.Error("a source without a cache key should never hit")
	}
}
