package history

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/history/order"
)

// Bind recomputes the children of every commit reachable from heads.
//
// Children are recorded in the order they are discovered by a leftmost-first
// walk from the heads: each commit lists a child at the moment that child is
// first visited. Commits not reachable from the heads end up with no
// children. After Bind, X is in Y.Children exactly when Y is in X.Parents
// for every reachable X.
func Bind(s *Store, heads []Handle, logger *log.Logger) {
	if logger == nil {
		logger = discard
	}
	for _, c := range s.commits {
		c.Children = nil
	}

	visit := order.NewLeftmostFirst(heads)
	for {
		h, ok := visit.Pop()
		if !ok {
			return
		}
		c := s.commits[h]
		logger.Debug("visiting", "commit", c.Short(), "parents", len(c.Parents))

		for _, p := range c.Parents {
			parent := s.commits[p]
			if !slices.Contains(parent.Children, h) {
				parent.Children = append(parent.Children, h)
			}
		}
		visit.Push(c.Parents)
	}
}
