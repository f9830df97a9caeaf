package text

import (
	"strings"

	"github.com/matzehuels/historian/pkg/errors"
)

const (
	glyphBlank       = ' '
	glyphNode        = '•'
	glyphStatic      = '◆'
	glyphChainTop    = '┯'
	glyphChainEnd    = '┷'
	glyphPipe        = '│'
	glyphRightMerge  = '┤'
	glyphRightCorner = '┘'
	glyphLeftMerge   = '├'
	glyphLeftCorner  = '└'
	glyphRightArrow  = '→'
	glyphLeftArrow   = '←'
)

var (
	horizontalMirror = map[rune]rune{
		'┤': '├', '├': '┤',
		'┘': '└', '└': '┘',
		'┐': '┌', '┌': '┐',
		'→': '←', '←': '→',
	}
	verticalMirror = map[rune]rune{
		'┘': '┐', '┐': '┘',
		'└': '┌', '┌': '└',
		'┯': '┷', '┷': '┯',
	}
)

// Orientation selects how the drawing is mirrored.
type Orientation int

const (
	Normal Orientation = iota // top to bottom, left to right
	HFlip                     // top to bottom, right to left
	VFlip                     // bottom to top, left to right
	Both                      // bottom to top, right to left
)

func (o Orientation) String() string {
	switch o {
	case HFlip:
		return "hflip"
	case VFlip:
		return "vflip"
	case Both:
		return "both"
	}
	return "none"
}

// ParseOrientation accepts none, hflip, vflip and both.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "normal":
		return Normal, nil
	case "hflip", "h":
		return HFlip, nil
	case "vflip", "v":
		return VFlip, nil
	case "both", "hvflip":
		return Both, nil
	}
	return Normal, errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation %q (want none, hflip, vflip or both)", s)
}

// Flip combines horizontal and vertical flags into an orientation.
func Flip(horizontal, vertical bool) Orientation {
	o := Normal
	if horizontal {
		o |= HFlip
	}
	if vertical {
		o |= VFlip
	}
	return o
}

func (o Orientation) horizontal() bool { return o&HFlip != 0 }
func (o Orientation) vertical() bool   { return o&VFlip != 0 }

func (o Orientation) mirror(r rune) rune {
	if o.horizontal() {
		if m, ok := horizontalMirror[r]; ok {
			r = m
		}
	}
	if o.vertical() {
		if m, ok := verticalMirror[r]; ok {
			r = m
		}
	}
	return r
}

// cell is one grid position of a row. glyph is drawn on the commit's first
// line, pad on the following ones.
type cell struct {
	glyph  rune
	pad    rune
	column int
	node   bool
	odd    bool
}
