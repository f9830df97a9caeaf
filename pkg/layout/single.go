package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/history/order"
)

// Single stacks every node in column zero.
type Single struct{}

// Name implements Engine.
func (Single) Name() string { return EngineSingle }

// Assign implements Engine.
func (Single) Assign(s *history.Store, heads []history.Handle, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = discard
	}
	s.ResetColumns()

	width := 0
	visit := order.NewLeftmostFirst(heads)
	for {
		h, ok := visit.Pop()
		if !ok {
			break
		}
		width = place(s, h, 0, width)
		visit.Push(s.At(h).Parents)
	}
	logger.Debug("assigned", "width", width)
	return width, nil
}
