package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/historian/pkg/errors"
	histio "github.com/matzehuels/historian/pkg/io"
	"github.com/matzehuels/historian/pkg/render/nodelink"
	"github.com/matzehuels/historian/pkg/render/text"
)

// Render writes l to w in opts.Format.
//
// Text is streamed row by row; a reader that goes away mid-stream ends the
// output without an error.
func Render(ctx context.Context, w io.Writer, l *Layout, opts Options) (int64, error) {
	opts.SetDefaults()
	switch opts.Format {
	case FormatText:
		r, err := TextRenderer(l, opts, w)
		if err != nil {
			return 0, err
		}
		return text.WriteTo(w, r.Lines())
	case FormatDOT:
		n, err := io.WriteString(w, nodelink.ToDOT(l.Store, l.First, nodelink.Options{Detailed: opts.Detailed}))
		return int64(n), err
	case FormatXDOT:
		dot := nodelink.ToDOT(l.Store, l.First, nodelink.Options{Detailed: opts.Detailed})
		positioned, err := nodelink.Position(ctx, dot)
		if err != nil {
			return 0, fmt.Errorf("position dot: %w", err)
		}
		n, err := w.Write(positioned)
		return int64(n), err
	case FormatJSON:
		cw := &countingWriter{w: w}
		err := histio.WriteJSON(l.Store, l.Order(), cw)
		return cw.n, err
	}
	return 0, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", opts.Format)
}

// TextRenderer prepares the text renderer for l. The palette is resolved
// against w so automatic color follows the output terminal.
func TextRenderer(l *Layout, opts Options, w io.Writer) (*text.Renderer, error) {
	opts.SetDefaults()
	palette, err := text.PaletteFor(opts.Color, w)
	if err != nil {
		return nil, err
	}
	return text.New(l.Store, l.First, l.Width, text.Options{
		Width:       opts.Width,
		Orientation: opts.Orientation,
		Markers:     opts.Markers,
		Palette:     palette,
		Decorate:    opts.Decorate,
		Oneline:     opts.Oneline,
		Logger:      opts.Debug.Logger(opts.Logger, DebugLayout),
	})
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
