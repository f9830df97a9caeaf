package cli

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/historian/pkg/cache"
	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/layout"
	"github.com/matzehuels/historian/pkg/pipeline"
	"github.com/matzehuels/historian/pkg/render/text"
	"github.com/matzehuels/historian/pkg/source"
)

func newTestView(t *testing.T, opts pipeline.Options) viewModel {
	t.Helper()
	records, err := source.ParseLines(strings.NewReader(mergeLog))
	if err != nil {
		t.Fatal(err)
	}
	store, err := cache.NewMemoryCache(8)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	opts.Color = text.ColorNever
	m, err := newViewModel(context.Background(), records, opts, store, cache.NewDefaultKeyer(), io.Discard)
	if err != nil {
		t.Fatalf("newViewModel() error: %v", err)
	}
	return m
}

func press(t *testing.T, m viewModel, keys ...string) viewModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		m = next.(viewModel)
	}
	return m
}

func TestViewInitialLayout(t *testing.T) {
	m := newTestView(t, pipeline.Options{})
	want := []string{"•   M", "├←• A", "• │ B", "•→┘ ROOT"}
	if !slices.Equal(m.lines, want) {
		t.Errorf("lines = %q, want %q", m.lines, want)
	}
	if m.builds != 1 {
		t.Errorf("builds = %d, want 1", m.builds)
	}

	v := m.View()
	for _, s := range append(want, "engine grid", "[1-4/4]") {
		if !strings.Contains(v, s) {
			t.Errorf("View() missing %q:\n%s", s, v)
		}
	}
}

func TestViewToggles(t *testing.T) {
	m := newTestView(t, pipeline.Options{})

	m = press(t, m, "h")
	if m.lines[0] != "  • M" {
		t.Errorf("after h, first line = %q", m.lines[0])
	}
	if m.opts.Orientation != text.HFlip {
		t.Errorf("Orientation = %v, want hflip", m.opts.Orientation)
	}

	m = press(t, m, "h")
	if m.lines[0] != "•   M" {
		t.Errorf("after h h, first line = %q", m.lines[0])
	}
	if m.builds != 2 {
		t.Errorf("builds = %d, want 2 (second flip served from cache)", m.builds)
	}

	m = press(t, m, "v")
	if m.lines[0] != "•→┐ ROOT" {
		t.Errorf("after v, first line = %q", m.lines[0])
	}
	m = press(t, m, "v")

	m = press(t, m, "m")
	if m.lines[0] != "┯   M" {
		t.Errorf("after m, first line = %q", m.lines[0])
	}
	m = press(t, m, "m")

	m = press(t, m, "r")
	if !m.opts.Reduce || !strings.Contains(m.View(), "reduced") {
		t.Errorf("r did not enable reduction")
	}
	m = press(t, m, "r")

	m = press(t, m, "-")
	if m.opts.Width != 1 {
		t.Errorf("Width = %d, should not drop below 1", m.opts.Width)
	}
	m = press(t, m, "+")
	if m.opts.Width != 2 {
		t.Errorf("Width = %d, want 2", m.opts.Width)
	}
}

func TestViewCyclesEngines(t *testing.T) {
	m := newTestView(t, pipeline.Options{})
	for i := range layout.Engines {
		want := layout.Engines[(i+1)%len(layout.Engines)]
		m = press(t, m, "e")
		if m.opts.Engine != want {
			t.Fatalf("engine = %q, want %q", m.opts.Engine, want)
		}
		if m.err != nil {
			t.Fatalf("engine %s: %v", want, m.err)
		}
		if len(m.lines) != 4 {
			t.Errorf("engine %s drew %d lines, want 4", want, len(m.lines))
		}
	}
}

func TestViewScroll(t *testing.T) {
	m := newTestView(t, pipeline.Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	m = next.(viewModel)

	tests := []struct {
		key  string
		want int
	}{
		{"j", 1},
		{"j", 2},
		{"j", 2},
		{"k", 1},
		{"g", 0},
		{"G", 2},
		{"b", 0},
		{"f", 2},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if m.offset != tt.want {
			t.Fatalf("after %q offset = %d, want %d", tt.key, m.offset, tt.want)
		}
	}

	v := m.View()
	if !strings.Contains(v, "[3-4/4]") || strings.Contains(v, "├←• A") {
		t.Errorf("View() at bottom:\n%s", v)
	}
}

func TestViewQuit(t *testing.T) {
	m := newTestView(t, pipeline.Options{})
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%q returned no command", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q did not quit", msg.String())
		}
	}
}

func TestViewUnknownHead(t *testing.T) {
	records, err := source.ParseLines(strings.NewReader(mergeLog))
	if err != nil {
		t.Fatal(err)
	}
	store, _ := cache.NewMemoryCache(8)
	_, err = newViewModel(context.Background(), records, pipeline.Options{Heads: []string{"nope"}, Color: text.ColorNever},
		store, cache.NewDefaultKeyer(), io.Discard)
	if !errors.Is(err, errors.ErrCodeUnknownHead) {
		t.Errorf("error = %v, want UNKNOWN_HEAD", err)
	}
}
