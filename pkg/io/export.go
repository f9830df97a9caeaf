package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/historian/pkg/history"
)

type document struct {
	Commits []commit `json:"commits"`
}

type commit struct {
	ID       string   `json:"id"`
	Parents  []string `json:"parents,omitempty"`
	Refs     []string `json:"refs,omitempty"`
	Messages []string `json:"messages"`

	// Folded chains name their endpoints.
	Top    string `json:"top,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Size   int    `json:"size,omitempty"`

	Static bool `json:"static,omitempty"`
	Row    *int `json:"row,omitempty"`
	Column *int `json:"column,omitempty"`
	Border *int `json:"border,omitempty"`
}

// WriteJSON encodes the commits of s in the given order. Parents are
// written as ids. Layout fields are included once a pass has set them, and
// folded chains carry their endpoints and size, so an exported layout can
// be inspected by external tools. The output can be read back with
// [ReadJSON].
//
// Pass s.Handles() to export in store order.
func WriteJSON(s *history.Store, order []history.Handle, w io.Writer) error {
	out := document{Commits: make([]commit, len(order))}
	for i, h := range order {
		c := s.At(h)
		rec := commit{
			ID:       c.ID,
			Parents:  s.IDs(c.Parents),
			Refs:     c.Refs,
			Messages: c.Messages,
			Static:   c.Static(),
		}
		if c.Size > 1 {
			rec.Top, rec.Bottom, rec.Size = c.TopID, c.BottomID, c.Size
		}
		rec.Row = assigned(c.Row)
		rec.Column = assigned(c.Column)
		rec.Border = assigned(c.Border)
		out.Commits[i] = rec
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return nil
}

// ExportJSON writes s to the file at path, creating or truncating it.
func ExportJSON(s *history.Store, order []history.Handle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, order, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func assigned(v int) *int {
	if v == history.Unassigned {
		return nil
	}
	return &v
}
