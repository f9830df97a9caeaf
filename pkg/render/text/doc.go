// Package text draws a laid out history as terminal lines.
//
// A [Renderer] walks the row chain from the first commit and emits one line
// per message line of every commit. The first line of a commit carries its
// marker and connectors; the remaining lines repeat the connectors only.
//
// # Cells
//
// A row is a sequence of cells. Even cells sit on layout columns and hold
// markers, pipes, merges and corners. Odd cells sit between two columns and
// only ever hold arrows; they are repeated [Options.Width] times so wide
// layouts stay readable. The rightmost even cell is never followed by an odd
// one.
//
// Which glyph a cell holds depends on the tracks of its column: the set of
// commits whose line currently runs down that column. After a commit is
// drawn it leaves every track and its parents join the track of its own
// column. Tracks are only changed between rows.
//
// # Orientation
//
// [Orientation] mirrors the whole drawing. HFlip draws right to left, VFlip
// bottom to top, Both does both. Glyphs are swapped for their mirror images
// so corners keep pointing at their lines.
//
// # Colors
//
// Colors come from a [Palette] and depend only on the column, modulo six.
// They carry no meaning; [Plain] disables them entirely.
//
// # Streaming
//
// [Renderer.Lines] returns a lazy sequence that can be restarted and can be
// abandoned at any point. [WriteTo] writes it out and treats a reader that
// went away as a normal end of output.
package text
