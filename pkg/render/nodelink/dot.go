package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/historian/pkg/history"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes row, column and refs in node labels.
	// When false, only the short id and summary are shown.
	Detailed bool
}

// laneColors cycles per column like the terminal palette does.
var laneColors = []string{"firebrick", "forestgreen", "goldenrod", "royalblue", "darkmagenta", "darkcyan"}

// ToDOT converts a laid out history to Graphviz DOT format. Nodes are
// emitted in row order and grouped by column so Graphviz keeps each lane
// straight; edges run from child to parent.
//
// Pinned commits are drawn as diamonds.
func ToDOT(s *history.Store, first history.Handle, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=monospace, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for h := first; h != history.None; h = s.At(h).Bottom {
		c := s.At(h)
		fmt.Fprintf(&buf, "  %q [%s];\n", c.ID, strings.Join(fmtAttrs(c, fmtLabel(c, opts.Detailed)), ", "))
	}

	buf.WriteString("\n")
	for h := first; h != history.None; h = s.At(h).Bottom {
		c := s.At(h)
		for _, p := range c.Parents {
			fmt.Fprintf(&buf, "  %q -> %q [color=%s];\n", c.ID, s.At(p).ID, laneColor(c.Column))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func laneColor(col int) string {
	if col < 0 {
		return "black"
	}
	return laneColors[col%len(laneColors)]
}

func fmtLabel(c *history.Commit, detailed bool) string {
	label := c.Short()
	if sum := c.Summary(); sum != "" {
		label += " " + sum
	}
	if c.Size > 1 {
		label += fmt.Sprintf(" (+%d)", c.Size-1)
	}
	if !detailed {
		return label
	}

	parts := []string{
		fmt.Sprintf("row: %d", c.Row),
		fmt.Sprintf("column: %d", c.Column),
	}
	if len(c.Refs) > 0 {
		parts = append(parts, "refs: "+strings.Join(c.Refs, ", "))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(c *history.Commit, label string) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("color=%s", laneColor(c.Column)),
	}
	if c.Column >= 0 {
		attrs = append(attrs, fmt.Sprintf("group=\"lane%d\"", c.Column))
	}
	if c.Static() {
		attrs = append(attrs, "shape=diamond", "style=filled")
	}
	return attrs
}

// Position runs the Graphviz dot layout over a DOT graph and returns it as
// DOT again, with node positions, sizes and edge splines filled in. Tools
// that draw the graph themselves can read the coordinates without running
// Graphviz.
func Position(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return buf.Bytes(), nil
}
