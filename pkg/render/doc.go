// Package render groups the output formats for a laid out history.
//
// # Overview
//
// Both renderers consume a store after the layout passes have assigned rows
// and columns. They only read the store.
//
//   - Terminal drawing (in [text] subpackage)
//   - Node-link diagrams through Graphviz (in [nodelink] subpackage)
//
// # Terminal Drawing
//
// The [text] subpackage draws connector glyphs and commit markers line by
// line, optionally mirrored and colored per column.
//
//	r, err := text.New(store, first, width, text.Options{Palette: text.ANSI{}})
//	_, err = text.WriteTo(os.Stdout, r.Lines())
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage exports the same layout to DOT, optionally
// positioned by Graphviz.
//
//	dot := nodelink.ToDOT(store, first, nodelink.Options{})
//	positioned, err := nodelink.Position(ctx, dot)
//
// [text]: github.com/matzehuels/historian/pkg/render/text
// [nodelink]: github.com/matzehuels/historian/pkg/render/nodelink
package render
