package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/history/order"
)

var discard = log.New(io.Discard)

// rowChain is the doubly linked print order under construction.
type rowChain struct {
	s     *history.Store
	first history.Handle
	last  history.Handle
	next  int
}

func (rc *rowChain) append(h history.Handle) {
	c := rc.s.At(h)
	c.Top = rc.last
	c.Bottom = history.None
	if rc.last == history.None {
		rc.first = h
	} else {
		rc.s.At(rc.last).Bottom = h
	}
	rc.last = h
	c.Row = rc.next
	rc.next++
}

// Linearize assigns a print row to every commit reachable from heads and
// links them into a row chain. It returns the first commit of the chain, or
// history.None when heads is empty.
//
// A commit is placed only once all of its children are placed, so it lands
// below every one of them on the first placement and a commit reached again
// through another child is left where it is. On return rows are numbered
// 0..n-1 along the chain.
func Linearize(s *history.Store, heads []history.Handle, logger *log.Logger) (history.Handle, error) {
	if logger == nil {
		logger = discard
	}
	s.ResetRows()

	done := make([]bool, s.Len())
	ready := func(h history.Handle) bool {
		if done[h] {
			return true
		}
		for _, ch := range s.At(h).Children {
			if !done[ch] {
				return false
			}
		}
		return true
	}

	rc := &rowChain{s: s, first: history.None, last: history.None}
	visit := order.NewRowOrder(heads, ready)
	visit.OnDefer = func(h history.Handle) {
		logger.Debug("deferred", "commit", s.Name(h))
	}

	for {
		h, ok := visit.Pop()
		if !ok {
			break
		}
		c := s.At(h)

		if done[h] {
			logger.Debug("skipped", "commit", c.Short(), "row", c.Row)
			continue
		}

		rc.append(h)
		done[h] = true
		logger.Debug("placed", "commit", c.Short(), "row", c.Row)
		visit.Push(c.Parents)
	}

	n := 0
	for h := rc.first; h != history.None; h = s.At(h).Bottom {
		s.At(h).Row = n
		n++
	}
	logger.Debug("linearized", "rows", n)
	return rc.first, nil
}

// Verify checks the row chain that starts at first: it must be a single
// path with consistent back links and strictly increasing rows, and no
// commit on it may print above one of its children. Violations are
// reported as internal invariant errors.
func Verify(s *history.Store, first history.Handle) error {
	if first == history.None {
		return nil
	}
	if !s.Valid(first) {
		return errors.Internal("row chain starts at unknown handle %d", first)
	}
	if top := s.At(first).Top; top != history.None {
		return errors.Internal("first row %s has a row above it", s.Name(first))
	}

	visited := make([]bool, s.Len())
	prev, prevRow := history.None, -1
	for h := first; h != history.None; h = s.At(h).Bottom {
		if !s.Valid(h) {
			return errors.Internal("row chain links to unknown handle %d", h)
		}
		if visited[h] {
			return errors.Internal("row chain visits %s twice", s.Name(h))
		}
		visited[h] = true

		c := s.At(h)
		if c.Top != prev {
			return errors.Internal("commit %s links up to %s, expected %s", c.Short(), s.Name(c.Top), s.Name(prev))
		}
		if c.Row <= prevRow {
			return errors.Internal("commit %s has row %d after row %d", c.Short(), c.Row, prevRow)
		}
		prev, prevRow = h, c.Row
	}

	for h := first; h != history.None; h = s.At(h).Bottom {
		c := s.At(h)
		for _, p := range c.Parents {
			pc := s.At(p)
			if pc.Row == history.Unassigned || !visited[p] {
				return errors.Internal("parent %s of %s has no row", pc.Short(), c.Short())
			}
			if pc.Row < c.Row {
				return errors.Internal("parent %s (row %d) prints above child %s (row %d)", pc.Short(), pc.Row, c.Short(), c.Row)
			}
		}
	}
	return nil
}
