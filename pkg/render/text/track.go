package text

import (
	"slices"
	"strings"

	"github.com/matzehuels/historian/pkg/history"
)

// tracks holds, per column, the commits whose line runs down that column.
type tracks []map[history.Handle]struct{}

func newTracks(width int) tracks {
	t := make(tracks, width)
	for i := range t {
		t[i] = make(map[history.Handle]struct{})
	}
	return t
}

func (t tracks) has(col int, h history.Handle) bool {
	_, ok := t[col][h]
	return ok
}

// advance records that h has been drawn and that lines now leave its
// column towards its parents.
func (t tracks) advance(h history.Handle, c *history.Commit) {
	for _, m := range t {
		delete(m, h)
	}
	for _, p := range c.Parents {
		t[c.Column][p] = struct{}{}
	}
}

// row computes the cells of the row holding commit h.
func (t tracks) row(h history.Handle, c *history.Commit) []cell {
	cells := make([]cell, 0, 2*len(t))
	for i := range t {
		if i > 0 {
			cells = append(cells, t.odd(i, h, c))
		}
		cells = append(cells, t.even(i, h, c))
	}
	return cells
}

func (t tracks) even(i int, h history.Handle, c *history.Commit) cell {
	if i == c.Column {
		pad := rune(glyphBlank)
		if len(c.Parents) > 0 {
			pad = glyphPipe
		}
		return cell{glyph: glyphNode, pad: pad, column: i, node: true}
	}

	right := i > c.Column
	switch {
	case t.has(i, h) && len(t[i]) > 1:
		if right {
			return cell{glyph: glyphRightMerge, pad: glyphPipe, column: i}
		}
		return cell{glyph: glyphLeftMerge, pad: glyphPipe, column: i}
	case t.has(i, h):
		if right {
			return cell{glyph: glyphRightCorner, pad: glyphBlank, column: i}
		}
		return cell{glyph: glyphLeftCorner, pad: glyphBlank, column: i}
	case len(t[i]) > 0:
		return cell{glyph: glyphPipe, pad: glyphPipe, column: i}
	}

	if right {
		if j, ok := t.findRight(i+1, h); ok {
			return cell{glyph: glyphRightArrow, pad: glyphBlank, column: j}
		}
	} else if j, ok := t.findLeft(i-1, h); ok {
		return cell{glyph: glyphLeftArrow, pad: glyphBlank, column: j}
	}
	return cell{glyph: glyphBlank, pad: glyphBlank, column: i}
}

// odd computes the cell between columns i-1 and i.
func (t tracks) odd(i int, h history.Handle, c *history.Commit) cell {
	if i > c.Column {
		if j, ok := t.findRight(i, h); ok {
			return cell{glyph: glyphRightArrow, pad: glyphBlank, column: j, odd: true}
		}
	} else if j, ok := t.findLeft(i-1, h); ok {
		return cell{glyph: glyphLeftArrow, pad: glyphBlank, column: j, odd: true}
	}
	return cell{glyph: glyphBlank, pad: glyphBlank, column: i, odd: true}
}

// findRight returns the first column at or right of from tracking h.
func (t tracks) findRight(from int, h history.Handle) (int, bool) {
	for j := from; j < len(t); j++ {
		if t.has(j, h) {
			return j, true
		}
	}
	return 0, false
}

// findLeft returns the first column at or left of from tracking h.
func (t tracks) findLeft(from int, h history.Handle) (int, bool) {
	for j := from; j >= 0; j-- {
		if t.has(j, h) {
			return j, true
		}
	}
	return 0, false
}

// plot formats the tracks for debugging, one field per column.
func (t tracks) plot(s *history.Store) string {
	fields := make([]string, len(t))
	for i, m := range t {
		if len(m) == 0 {
			fields[i] = "XXXXXXX"
			continue
		}
		names := make([]string, 0, len(m))
		for h := range m {
			names = append(names, s.Name(h))
		}
		slices.Sort(names)
		fields[i] = strings.Join(names, "+")
	}
	return "{" + strings.Join(fields, " ") + "}"
}
