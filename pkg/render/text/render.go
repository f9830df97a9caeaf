package text

import (
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
)

var discard = log.New(io.Discard)

// Markers selects the node glyphs.
type Markers int

const (
	// MarkersDefault draws every node as a bullet and pinned nodes as a
	// diamond.
	MarkersDefault Markers = iota
	// MarkersChain gives every message line its own bullet, opens heads
	// with ┯ and closes roots with ┷.
	MarkersChain
)

func (m Markers) String() string {
	if m == MarkersChain {
		return "chain"
	}
	return "default"
}

// ParseMarkers accepts default and chain.
func ParseMarkers(s string) (Markers, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return MarkersDefault, nil
	case "chain":
		return MarkersChain, nil
	}
	return MarkersDefault, errors.New(errors.ErrCodeInvalidInput, "unknown markers %q (want default or chain)", s)
}

// Options configures a Renderer.
type Options struct {
	// Width is how many times odd cells are repeated. Values below one
	// mean one.
	Width int

	Orientation Orientation
	Markers     Markers

	// Palette styles the output; nil means Plain.
	Palette Palette

	// Decorate prefixes the first line of a commit with its short id and
	// ref labels.
	Decorate bool

	// Oneline drops every message line but the first.
	Oneline bool

	// Logger receives the per-row track snapshots at debug level.
	Logger *log.Logger
}

// Line is one output line.
type Line struct {
	Commit history.Handle
	Graph  string // styled connector and marker cells
	Text   string // styled message, may be empty
	First  bool   // the commit's marker line
}

// String joins graph and text the way they are printed.
func (l Line) String() string {
	if l.Text == "" {
		return l.Graph
	}
	return l.Graph + " " + l.Text
}

// Renderer draws a laid out store. It only reads the store.
type Renderer struct {
	store *history.Store
	first history.Handle
	width int
	opts  Options
}

// New prepares a renderer for the row chain starting at first on a grid of
// width columns. Every commit on the chain must have a column inside the
// grid; anything else means the layout passes did not run or failed.
func New(s *history.Store, first history.Handle, width int, opts Options) (*Renderer, error) {
	if opts.Width < 1 {
		opts.Width = 1
	}
	if opts.Palette == nil {
		opts.Palette = Plain{}
	}
	if opts.Logger == nil {
		opts.Logger = discard
	}

	for h := first; h != history.None; h = s.At(h).Bottom {
		c := s.At(h)
		if c.Column < 0 || c.Column >= width {
			return nil, errors.Internal("commit %s has column %d outside a grid of %d", c.Short(), c.Column, width)
		}
	}
	return &Renderer{store: s, first: first, width: width, opts: opts}, nil
}

// Lines returns the output lines in print order. Each range over the
// sequence starts from the first row again. With a vertical flip the rows
// are computed in full before the first line is yielded.
func (r *Renderer) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		if !r.opts.Orientation.vertical() {
			r.walk(yield)
			return
		}
		var lines []Line
		r.walk(func(l Line) bool {
			lines = append(lines, l)
			return true
		})
		for _, l := range slices.Backward(lines) {
			if !yield(l) {
				return
			}
		}
	}
}

// String renders every line into one newline-terminated string.
func (r *Renderer) String() string {
	var b strings.Builder
	for l := range r.Lines() {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Renderer) walk(yield func(Line) bool) {
	t := newTracks(r.width)
	debug := r.opts.Logger.GetLevel() <= log.DebugLevel

	for h := r.first; h != history.None; h = r.store.At(h).Bottom {
		c := r.store.At(h)
		cells := t.row(h, c)
		var top string
		if debug {
			top = t.plot(r.store)
		}

		lines := r.block(h, c, cells)
		t.advance(h, c)
		if debug {
			r.opts.Logger.Debug("row", "commit", c.Short(), "column", c.Column, "top", top, "bottom", t.plot(r.store))
		}

		for _, l := range lines {
			if !yield(l) {
				return
			}
		}
	}
}

// block produces the lines of one commit.
func (r *Renderer) block(h history.Handle, c *history.Commit, cells []cell) []Line {
	msgs := c.Messages
	if len(msgs) == 0 {
		msgs = []string{""}
	}
	if r.opts.Oneline {
		msgs = msgs[:1]
	}

	lines := make([]Line, 0, len(msgs))
	for i, msg := range msgs {
		first, last := i == 0, i == len(msgs)-1
		text := r.opts.Palette.Text(msg)
		if first && r.opts.Decorate {
			text = r.decorate(c, msg)
		}
		lines = append(lines, Line{
			Commit: h,
			Graph:  r.draw(cells, r.marker(c, first, last), first),
			Text:   text,
			First:  first,
		})
	}
	return lines
}

// marker returns the glyph of the node cell for one line of c's block, or
// zero to fall back to the cell's own pad.
func (r *Renderer) marker(c *history.Commit, first, last bool) rune {
	chain := r.opts.Markers == MarkersChain
	switch {
	case first && c.Static():
		return glyphStatic
	case chain && first && len(c.Children) == 0:
		return glyphChainTop
	case chain && last && len(c.Parents) == 0:
		return glyphChainEnd
	case first || chain:
		return glyphNode
	}
	return 0
}

func (r *Renderer) decorate(c *history.Commit, msg string) string {
	p := r.opts.Palette
	parts := []string{p.ID(c.Short())}
	if len(c.Refs) > 0 {
		parts = append(parts, p.Ref("("+strings.Join(c.Refs, ", ")+")"))
	}
	if msg != "" {
		parts = append(parts, p.Text(msg))
	}
	return strings.Join(parts, " ")
}

// draw turns cells into a styled string. Neighbouring cells of the same
// color are styled as one run.
func (r *Renderer) draw(cells []cell, marker rune, first bool) string {
	o := r.opts.Orientation
	if o.horizontal() {
		cells = slices.Clone(cells)
		slices.Reverse(cells)
	}

	var b, run strings.Builder
	runColor := -1
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(r.opts.Palette.Column(runColor, run.String()))
			run.Reset()
		}
	}

	for _, c := range cells {
		g := c.pad
		if first {
			g = c.glyph
		}
		if c.node && marker != 0 {
			g = marker
		}
		g = o.mirror(g)

		if c.node && first {
			flush()
			b.WriteString(r.opts.Palette.Node(string(g)))
			continue
		}
		if c.column != runColor {
			flush()
			runColor = c.column
		}
		n := 1
		if c.odd {
			n = r.opts.Width
		}
		for range n {
			run.WriteRune(g)
		}
	}
	flush()
	return b.String()
}
