package layout

import (
	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/matzehuels/historian/pkg/history"
)

// lane is the span of rows [start, end) a commit's line holds in its column.
type lane struct {
	start, end int
	owner      history.Handle
}

// laneOf spans from the commit's row down to its lowest parent. A commit
// without parents below it still holds its own row.
func laneOf(s *history.Store, c *history.Commit) lane {
	end := c.Row + 1
	for _, p := range c.Parents {
		if r := s.At(p).Row; r > end {
			end = r
		}
	}
	return lane{start: c.Row, end: end}
}

// freeIndex records which rows of every column are held by a lane. Each
// column keeps its lanes in a red-black tree keyed by start row. Placed
// lanes never overlap, but static pins are claimed unconditionally and may
// nest, so a lookup walks back from the nearest lane above until no earlier
// lane can still reach the queried row.
type freeIndex struct {
	columns map[int]*laneColumn
}

type laneColumn struct {
	lanes   *redblacktree.Tree
	longest int
}

func newFreeIndex() *freeIndex {
	return &freeIndex{columns: make(map[int]*laneColumn)}
}

// claim marks l as held in col.
func (x *freeIndex) claim(col int, l lane) {
	c, ok := x.columns[col]
	if !ok {
		c = &laneColumn{lanes: redblacktree.NewWithIntComparator()}
		x.columns[col] = c
	}
	c.lanes.Put(l.start, l)
	c.longest = max(c.longest, l.end-l.start)
}

// blocker returns a lane in col that overlaps l, if any.
func (x *freeIndex) blocker(col int, l lane) (lane, bool) {
	c, ok := x.columns[col]
	if !ok {
		return lane{}, false
	}
	if n, found := c.lanes.Ceiling(l.start); found && n.Key.(int) < l.end {
		return n.Value.(lane), true
	}
	for key := l.start; ; {
		n, found := c.lanes.Floor(key)
		if !found {
			break
		}
		prev := n.Value.(lane)
		if prev.end > l.start {
			return prev, true
		}
		if prev.start+c.longest <= l.start {
			break
		}
		key = prev.start - 1
	}
	return lane{}, false
}

// free reports whether no lane in col overlaps l.
func (x *freeIndex) free(col int, l lane) bool {
	_, busy := x.blocker(col, l)
	return !busy
}
