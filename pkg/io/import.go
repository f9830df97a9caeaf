package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
)

// ReadJSON decodes a history document from r into records.
//
// The input must be a JSON object with a "commits" array listed newest
// first:
//
//	{
//	  "commits": [
//	    {"id": "b2", "parents": ["a1"], "refs": ["main"], "messages": ["fix"]},
//	    {"id": "a1", "messages": ["init"]}
//	  ]
//	}
//
// Layout fields written by [WriteJSON] are accepted and ignored; layouts are
// always recomputed. ReadJSON checks the document shape only. Id syntax,
// duplicates and dangling parents are reported by [history.Load].
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]history.Record, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode history")
	}
	if doc.Commits == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "decode history: missing \"commits\" array")
	}

	records := make([]history.Record, len(doc.Commits))
	for i, c := range doc.Commits {
		if c.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "commit %d: missing id", i)
		}
		records[i] = history.Record{
			ID:       c.ID,
			Parents:  c.Parents,
			Refs:     c.Refs,
			Messages: c.Messages,
		}
	}
	return records, nil
}

// ImportJSON reads the history document at path.
func ImportJSON(path string) ([]history.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
