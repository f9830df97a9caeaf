package layout

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/history/order"
)

// Grid assigns columns through a free-column index.
//
// Every placed commit holds its column from its own row down to its lowest
// parent. A commit is only placed where that span is free, so two lines
// never run through the same column on the same rows. Commits with a
// static pin are placed before anything else.
type Grid struct{}

// Name implements Engine.
func (Grid) Name() string { return EngineGrid }

// Assign implements Engine.
func (Grid) Assign(s *history.Store, heads []history.Handle, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = discard
	}
	s.ResetColumns()

	g := &gridPass{s: s, index: newFreeIndex(), logger: logger}
	for _, h := range s.Handles() {
		c := s.At(h)
		if !c.Static() || c.Row == history.Unassigned {
			continue
		}
		g.claim(h, c.Pin)
		logger.Debug("pinned", "commit", c.Short(), "column", c.Pin)
	}

	isHead := make(map[history.Handle]bool, len(heads))
	for _, h := range heads {
		isHead[h] = true
	}

	byRow := order.Descending(func(h history.Handle) int { return s.At(h).Row })
	visit := order.NewColumnOrder(heads, byRow)
	firstHead, lastHead := true, 0

	for {
		h, ok := visit.Pop()
		if !ok {
			break
		}
		c := s.At(h)
		if c.Row == history.Unassigned {
			return 0, errors.Internal("commit %s has no row", c.Short())
		}

		if c.Column == history.Unassigned {
			col, err := g.columnForHead(c, firstHead, lastHead)
			if err != nil {
				return 0, err
			}
			g.claim(h, col)
			logger.Debug("head", "commit", c.Short(), "column", col)
		}
		if isHead[h] {
			firstHead, lastHead = false, c.Column
		}

		if err := g.columnsForParents(h); err != nil {
			return 0, err
		}
		visit.Push(c.Parents)
	}

	logger.Debug("assigned", "width", g.width)
	return g.width, nil
}

type gridPass struct {
	s      *history.Store
	index  *freeIndex
	width  int
	logger *log.Logger
}

func (g *gridPass) claim(h history.Handle, col int) {
	c := g.s.At(h)
	l := laneOf(g.s, c)
	l.owner = h
	g.index.claim(col, l)
	g.width = place(g.s, h, col, g.width)
}

// fit returns the first column at or right of from where c's lane is free.
func (g *gridPass) fit(c *history.Commit, from int) int {
	l := laneOf(g.s, c)
	col := from
	for {
		b, busy := g.index.blocker(col, l)
		if !busy {
			return col
		}
		g.logger.Debug("column taken", "commit", c.Short(), "column", col, "by", g.s.Name(b.owner))
		col++
	}
}

// columnForHead picks a column for a commit no child has placed.
//
// Without placed parents the commit opens a new column. Otherwise it starts
// above the parent with the rightmost border and moves one column right
// when another parent would print below that one. Heads never sit left of
// the head before them.
func (g *gridPass) columnForHead(c *history.Commit, first bool, last int) (int, error) {
	var best, lowest, lowestOpen *history.Commit
	for _, p := range c.Parents {
		pc := g.s.At(p)
		if pc.Row == history.Unassigned {
			return 0, errors.Internal("parent %s of %s has no row", pc.Short(), c.Short())
		}
		if lowest == nil || pc.Row > lowest.Row {
			lowest = pc
		}
		if pc.Column == history.Unassigned {
			if lowestOpen == nil || pc.Row > lowestOpen.Row {
				lowestOpen = pc
			}
			continue
		}
		if best == nil || pc.Border > best.Border {
			best = pc
		}
	}

	candidate := g.width
	switch {
	case best == nil:
	case lowestOpen == nil:
		candidate = best.Border
		if len(c.Parents) > 1 && lowest != best {
			candidate++
		}
	default:
		candidate = best.Border
		if lowestOpen.Row > best.Row {
			candidate++
		}
	}
	if !first && candidate < last {
		candidate = last
	}
	return g.fit(c, candidate), nil
}

// columnsForParents places the parents of h from the lowest row up. A
// parent placed by another child only widens its border; the next parent
// then starts right of that border.
func (g *gridPass) columnsForParents(h history.Handle) error {
	c := g.s.At(h)
	parents := slices.Clone(c.Parents)
	slices.SortStableFunc(parents, order.Descending(func(p history.Handle) int { return g.s.At(p).Row }))

	running := c.Column
	for _, p := range parents {
		pc := g.s.At(p)
		if pc.Row == history.Unassigned {
			return errors.Internal("parent %s of %s has no row", pc.Short(), c.Short())
		}

		if pc.Column != history.Unassigned {
			pc.Border = max(pc.Border, c.Column)
			running = max(running, pc.Border+1)
			g.logger.Debug("shared parent", "commit", pc.Short(), "column", pc.Column, "border", pc.Border)
			continue
		}

		col := g.fit(pc, running)
		g.claim(p, col)
		running = col + 1
		g.logger.Debug("parent", "commit", pc.Short(), "child", c.Short(), "column", col)
	}
	return nil
}
