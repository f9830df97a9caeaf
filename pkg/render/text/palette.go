package text

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/historian/pkg/errors"
)

// Palette styles the pieces of a line. Column receives a run of connector
// cells that share a column color.
type Palette interface {
	Column(col int, s string) string
	Node(s string) string
	ID(s string) string
	Ref(s string) string
	Text(s string) string
}

// Plain leaves everything unstyled.
type Plain struct{}

func (Plain) Column(_ int, s string) string { return s }
func (Plain) Node(s string) string          { return s }
func (Plain) ID(s string) string            { return s }
func (Plain) Ref(s string) string           { return s }
func (Plain) Text(s string) string          { return s }

// ANSI emits raw SGR sequences regardless of the terminal. Columns cycle
// through the six basic foreground colors.
type ANSI struct{}

func (ANSI) Column(col int, s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[m", 31+col%6, s)
}
func (ANSI) Node(s string) string { return s }
func (ANSI) ID(s string) string   { return s }
func (ANSI) Ref(s string) string  { return "\x1b[32;1m" + s + "\x1b[m" }
func (ANSI) Text(s string) string { return s }

// Lipgloss styles through a lipgloss renderer, which downgrades or drops
// colors to match the output it was created for.
type Lipgloss struct {
	columns [6]lipgloss.Style
	node    lipgloss.Style
	id      lipgloss.Style
	ref     lipgloss.Style
	text    lipgloss.Style
}

// NewLipgloss builds a palette on r, or on the default renderer when r is
// nil.
func NewLipgloss(r *lipgloss.Renderer) *Lipgloss {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p := &Lipgloss{
		node: r.NewStyle().Bold(true),
		id:   r.NewStyle().Foreground(lipgloss.Color("3")),
		ref:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		text: r.NewStyle(),
	}
	for i := range p.columns {
		p.columns[i] = r.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(i + 1)))
	}
	return p
}

func (p *Lipgloss) Column(col int, s string) string { return p.columns[col%6].Render(s) }
func (p *Lipgloss) Node(s string) string            { return p.node.Render(s) }
func (p *Lipgloss) ID(s string) string              { return p.id.Render(s) }
func (p *Lipgloss) Ref(s string) string             { return p.ref.Render(s) }
func (p *Lipgloss) Text(s string) string            { return p.text.Render(s) }

// Color modes accepted by [PaletteFor].
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// PaletteFor picks a palette for output written to w. Auto colors only when
// w is a terminal that supports it.
func PaletteFor(mode string, w io.Writer) (Palette, error) {
	switch strings.ToLower(mode) {
	case "", ColorAuto:
		return NewLipgloss(lipgloss.NewRenderer(w)), nil
	case ColorAlways:
		return ANSI{}, nil
	case ColorNever:
		return Plain{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown color mode %q (want auto, always or never)", mode)
}
