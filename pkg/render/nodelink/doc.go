// Package nodelink renders a laid out history as a node-link diagram.
//
// # Overview
//
// This package exports the commit graph to Graphviz, where commits appear as
// boxes connected by arrows from child to parent. It complements the text
// renderer when a history is too wide for a terminal or is drawn by
// another tool.
//
// # Usage
//
// Convert a laid out store to DOT format, then let Graphviz position it:
//
//	dot := nodelink.ToDOT(store, first, nodelink.Options{Detailed: false})
//	positioned, err := nodelink.Position(ctx, dot)
//
// # DOT Format
//
// [ToDOT] emits nodes in row order and tags each with a group per layout
// column, so Graphviz keeps lanes vertical much like the terminal drawing.
// Edges are colored by the child's column with the same six-color cycle.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] to run the Graphviz
// layout in process. Output stays textual DOT.
package nodelink
