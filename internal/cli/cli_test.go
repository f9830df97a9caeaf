package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const mergeLog = "M A B#M\nA ROOT#A\nB ROOT#B\nROOT#ROOT\n"

// execute runs the command line args with mergeLog on stdin and returns
// what was written to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	c := &CLI{
		Logger: newLogger(io.Discard, LogInfo),
		Out:    &out,
		In:     strings.NewReader(mergeLog),
	}
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default",
			args: []string{"--input", "-", "--color", "never", "--decorate=false"},
			want: "•   M\n├←• A\n• │ B\n•→┘ ROOT\n",
		},
		{
			name: "hflip",
			args: []string{"--input", "-", "--color", "never", "--decorate=false", "--hflip"},
			want: "  • M\n•→┤ A\n│ • B\n└←• ROOT\n",
		},
		{
			name: "chain markers",
			args: []string{"--input", "-", "--color", "never", "--decorate=false", "--markers", "chain"},
			want: "┯   M\n├←• A\n• │ B\n┷→┘ ROOT\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if got != tt.want {
				t.Errorf("output:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderCommandConfig(t *testing.T) {
	cfg := writeConfig(t, `
color = "never"
decorate = false
orientation = "vflip"
`)

	got, err := execute(t, "--input", "-", "--config", cfg)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if want := "•→┐ ROOT\n• │ B\n├←• A\n•   M\n"; got != want {
		t.Errorf("config orientation ignored:\n%s", got)
	}

	// Flags win over the file.
	got, err = execute(t, "--input", "-", "--config", cfg, "--hflip")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if want := "  • M\n•→┤ A\n│ • B\n└←• ROOT\n"; got != want {
		t.Errorf("--hflip should override config:\n%s", got)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown engine", []string{"--input", "-", "--engine", "spiral"}},
		{"unknown format", []string{"--input", "-", "--format", "png"}},
		{"unknown head", []string{"--input", "-", "--head", "nope"}},
		{"bad markers", []string{"--input", "-", "--markers", "stars"}},
		{"missing config", []string{"--input", "-", "--config", "/nonexistent/config.toml"}},
		{"missing input", []string{"--input", "/nonexistent/history.log"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderCommandOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	got, err := execute(t, "--input", "-", "--format", "json", "-o", path)
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if got != "" {
		t.Errorf("stdout should stay empty, got %q", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"commits"`)) {
		t.Errorf("output file is not a layout document:\n%s", data)
	}
}

func TestDotCommand(t *testing.T) {
	got, err := execute(t, "dot", "--input", "-", "--detailed")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.HasPrefix(got, "digraph G {") {
		t.Errorf("not DOT output:\n%s", got)
	}
	if !strings.Contains(got, "row: 0") {
		t.Errorf("--detailed labels missing:\n%s", got)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("values", func(t *testing.T) {
		cfg, err := loadConfig(writeConfig(t, `
engine = "lanes"
width = 2

[[static]]
pattern = "^tag: v"
column = 3
`), true)
		if err != nil {
			t.Fatalf("loadConfig() error: %v", err)
		}
		if cfg.Engine == nil || *cfg.Engine != "lanes" {
			t.Errorf("Engine = %v", cfg.Engine)
		}
		if cfg.Width == nil || *cfg.Width != 2 {
			t.Errorf("Width = %v", cfg.Width)
		}
		if cfg.Reduce != nil {
			t.Errorf("Reduce should be unset, got %v", *cfg.Reduce)
		}
		if len(cfg.Static) != 1 || cfg.Static[0].Pattern != "^tag: v" || cfg.Static[0].Column != 3 {
			t.Errorf("Static = %+v", cfg.Static)
		}
	})

	t.Run("unknown keys", func(t *testing.T) {
		_, err := loadConfig(writeConfig(t, "engine = \"grid\"\ncolour = \"never\"\n"), true)
		if err == nil || !strings.Contains(err.Error(), "colour") {
			t.Errorf("error = %v, want unknown key colour", err)
		}
	})

	t.Run("missing default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if _, err := loadConfig(path, false); err != nil {
			t.Errorf("missing default config should be ignored: %v", err)
		}
		if _, err := loadConfig(path, true); err == nil {
			t.Error("missing explicit config should fail")
		}
	})

	t.Run("syntax", func(t *testing.T) {
		if _, err := loadConfig(writeConfig(t, "engine = \n"), true); err == nil {
			t.Error("expected parse error")
		}
	})
}
