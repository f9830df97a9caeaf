// Package io provides JSON import and export for commit histories.
//
// # JSON Format
//
// A history document holds one array of commits, newest first:
//
//	{
//	  "commits": [
//	    {"id": "c3", "parents": ["c2"], "refs": ["HEAD -> main"], "messages": ["third"]},
//	    {"id": "c2", "parents": ["c1"], "messages": ["second"]},
//	    {"id": "c1", "messages": ["first"]}
//	  ]
//	}
//
// Every commit needs an "id". Parents are listed in git order, the first
// parent being the mainline. A history without refs or messages is still
// valid.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the same shape, adding the layout
// fields of commits that went through the layout pipeline:
//
//   - row, column, border: the computed placement
//   - static: set for commits pinned by a static rule
//   - top, bottom, size: the endpoints of a folded chain
//
// These fields are informational. [ReadJSON] ignores them, so an exported
// layout reads back as the plain history it was computed from.
package io
