// Package pkg provides the core libraries for Historian commit graph drawing.
//
// # Overview
//
// Historian draws the commit graph of a repository as compact text, one
// commit per row, with merges and forks drawn as box-drawing connectors
// that run in fixed columns. The pkg directory is organized into four
// areas:
//
//  1. [history] - The commit store and the passes that prepare it
//  2. [layout] - Row order and column assignment
//  3. [render] - Terminal drawing and Graphviz export
//  4. [pipeline] - Orchestration (load → layout → render)
//
// # Architecture
//
// The typical data flow through Historian:
//
//	git repository / git log listing / JSON
//	         ↓
//	    [source] package (read records)
//	         ↓
//	    [history] package (store, heads, binding, chain reduction)
//	         ↓
//	    [layout] package (rows, then columns)
//	         ↓
//	    [render] package (text, DOT) or [io] (JSON)
//
// # Quick Start
//
// Load a listing and draw it:
//
//	records, _ := source.ParseLines(strings.NewReader(log))
//	l, _ := pipeline.BuildLayout(records, pipeline.Options{Engine: layout.EngineGrid})
//	r, _ := pipeline.TextRenderer(l, pipeline.Options{}, os.Stdout)
//	text.WriteTo(os.Stdout, r.Lines())
//
// # Main Packages
//
// ## History
//
// [history] - Arena store of commits addressed by handle. Loads records,
// resolves parents to handles, picks heads and binds children. Static
// rules pin commits with matching refs to fixed columns.
//
// [history/order] - Visit orders that parameterize each pass: leftmost
// first, readiness gated rows and sorted column batches.
//
// [history/transform] - Chain reduction folds runs of single parent,
// single child commits into one node carrying every message.
//
// ## Layout
//
// [layout] - The row linearizer and three column engines: grid (free
// column index), lanes (first free lane) and none (single column).
//
// ## Rendering
//
// [render/text] - Glyph state machine drawing connectors per column,
// mirrored on request and colored per column.
//
// [render/nodelink] - Graphviz DOT export keeping rows and lanes.
//
// ## Input and Output
//
// [source] - History sources: git repositories through go-git, git log
// listings and JSON documents.
//
// [io] - JSON import and export of records and finished layouts.
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline (load → layout → render) used by the CLI.
//
// [cache] - File and memory caches for loaded histories and artifacts.
//
// [observability] - Hooks reporting stage timings and cache traffic.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information set at build time.
//
// [history]: github.com/matzehuels/historian/pkg/history
// [history/order]: github.com/matzehuels/historian/pkg/history/order
// [history/transform]: github.com/matzehuels/historian/pkg/history/transform
// [layout]: github.com/matzehuels/historian/pkg/layout
// [render]: github.com/matzehuels/historian/pkg/render
// [render/text]: github.com/matzehuels/historian/pkg/render/text
// [render/nodelink]: github.com/matzehuels/historian/pkg/render/nodelink
// [source]: github.com/matzehuels/historian/pkg/source
// [io]: github.com/matzehuels/historian/pkg/io
// [pipeline]: github.com/matzehuels/historian/pkg/pipeline
// [cache]: github.com/matzehuels/historian/pkg/cache
// [observability]: github.com/matzehuels/historian/pkg/observability
// [errors]: github.com/matzehuels/historian/pkg/errors
// [buildinfo]: github.com/matzehuels/historian/pkg/buildinfo
package pkg
