// Package layout places the commits of a history on a character grid.
//
// Layout runs in two passes over a store whose children are bound:
//
//  1. [Linearize] orders commits into print rows so that no commit prints
//     above any of its children, and links them into a row chain through
//     the Top and Bottom handles of each commit.
//  2. An [Engine] assigns every commit a column and a border, the rightmost
//     column its already placed descendants hold, and reports the width of
//     the diagram.
//
// Three engines satisfy the same contract:
//
//   - [Grid] routes lanes through a free-column index so that lines never
//     share a column over the same rows. It honours static column pins.
//   - [Lanes] opens a new column for every node. Wide but simple.
//   - [Single] puts every node in column zero.
//
// Use [EngineFor] to select an engine by name:
//
//	first, err := layout.Linearize(store, heads, logger)
//	engine, err := layout.EngineFor("grid")
//	width, err := engine.Assign(store, heads, logger)
package layout
