// Package transform rewrites a commit store before layout.
//
// # Chain Reduction
//
// [Reduce] collapses every maximal straight run of commits into a single
// node. A run continues downward from a commit c to its parent e when e has
// exactly one child (c) and c has exactly one parent (e). The resulting node
// carries the messages of every folded commit from top to bottom and is a
// drop-in replacement for a commit in the row, column and render passes.
//
// Commits carrying ref labels always start a new node, so branch and tag
// names, and the static columns derived from them, stay on their own rows.
//
//	reduced, heads, err := transform.Reduce(store, heads, logger)
//
// Reduce never mutates its input store.
package transform
