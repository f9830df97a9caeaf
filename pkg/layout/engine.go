package layout

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
)

// Engine assigns a column and a border to every commit reachable from the
// heads and returns the diagram width, one more than the largest column.
//
// Assign clears all columns before it runs, so calling it twice on the same
// store yields the same result. Grid additionally requires rows from
// [Linearize].
type Engine interface {
	Name() string
	Assign(s *history.Store, heads []history.Handle, logger *log.Logger) (int, error)
}

// Engine names accepted by [EngineFor].
const (
	EngineGrid   = "grid"
	EngineLanes  = "lanes"
	EngineSingle = "none"
)

// Engines lists the canonical engine names.
var Engines = []string{EngineGrid, EngineLanes, EngineSingle}

// EngineFor returns the engine registered under name. "dumb" is accepted for
// lanes and "no" or "single" for none. An empty name selects the grid.
func EngineFor(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineGrid:
		return Grid{}, nil
	case EngineLanes, "dumb":
		return Lanes{}, nil
	case EngineSingle, "no", "single":
		return Single{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEngine, "unknown layout engine %q (want one of %s)", name, strings.Join(Engines, ", "))
}

// place sets column and border of h and returns the updated width.
func place(s *history.Store, h history.Handle, col, width int) int {
	c := s.At(h)
	c.Column = col
	c.Border = col
	if col+1 > width {
		return col + 1
	}
	return width
}
