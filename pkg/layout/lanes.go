package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/history/order"
)

// Lanes opens a new column for every node in leftmost-first order from the
// heads. With chain reduction each chain gets its own lane. Static pins are
// ignored.
type Lanes struct{}

// Name implements Engine.
func (Lanes) Name() string { return EngineLanes }

// Assign implements Engine.
func (Lanes) Assign(s *history.Store, heads []history.Handle, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = discard
	}
	s.ResetColumns()

	var placed []history.Handle
	width := 0
	visit := order.NewLeftmostFirst(heads)
	for {
		h, ok := visit.Pop()
		if !ok {
			break
		}
		width = place(s, h, width, width)
		placed = append(placed, h)
		logger.Debug("lane", "commit", s.Name(h), "column", s.At(h).Column)
		visit.Push(s.At(h).Parents)
	}

	for _, h := range placed {
		c := s.At(h)
		for _, p := range c.Parents {
			if pc := s.At(p); pc.Border < c.Column {
				pc.Border = c.Column
			}
		}
	}
	return width, nil
}
