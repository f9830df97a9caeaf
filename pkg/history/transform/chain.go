package transform

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/history/order"
)

var discard = log.New(io.Discard)

// chain is a run of commits of the input store being folded together.
type chain struct {
	top      history.Handle
	bottom   history.Handle
	parents  []history.Handle // parents of bottom, in the input store
	messages []string
	size     int
}

func newChain(s *history.Store, h history.Handle) *chain {
	c := s.At(h)
	return &chain{
		top:      h,
		bottom:   h,
		parents:  c.Parents,
		messages: append([]string(nil), c.Messages...),
		size:     1,
	}
}

// absorb appends commit h at the bottom of the chain and adopts its parents.
func (ch *chain) absorb(s *history.Store, h history.Handle) {
	c := s.At(h)
	ch.bottom = h
	ch.parents = c.Parents
	ch.messages = append(ch.messages, c.Messages...)
	ch.size++
}

// Reduce folds non-branching runs of s into chain nodes and returns the
// reduced store, already bound from the returned heads.
//
// s must have its children bound from heads (see [history.Bind]). Commits
// unreachable from heads are not part of the result.
func Reduce(s *history.Store, heads []history.Handle, logger *log.Logger) (*history.Store, []history.Handle, error) {
	if logger == nil {
		logger = discard
	}

	chainOf := make(map[history.Handle]*chain, s.Len())
	var chains []*chain
	start := func(h history.Handle) {
		ch := newChain(s, h)
		chainOf[h] = ch
		chains = append(chains, ch)
	}

	for _, h := range heads {
		if _, ok := chainOf[h]; !ok {
			start(h)
		}
	}

	visit := order.NewLeftmostFirst(heads)
	for {
		h, ok := visit.Pop()
		if !ok {
			break
		}
		c := s.At(h)

		switch {
		case chainOf[h] != nil:
			logger.Debug("preserved", "commit", c.Short())

		case canAbsorb(s, chainOf, c):
			child := c.Children[0]
			ch := chainOf[child]
			ch.absorb(s, h)
			chainOf[h] = ch
			logger.Debug("absorbed", "commit", c.Short(), "chain", s.Name(ch.top), "size", ch.size)

		default:
			start(h)
			logger.Debug("promoted", "commit", c.Short())
		}

		visit.Push(c.Parents)
	}

	return build(s, heads, chains, chainOf, logger)
}

// canAbsorb reports whether c continues the chain of its only child.
func canAbsorb(s *history.Store, chainOf map[history.Handle]*chain, c *history.Commit) bool {
	if len(c.Children) != 1 || len(c.Refs) > 0 {
		return false
	}
	child := c.Children[0]
	ch, ok := chainOf[child]
	if !ok {
		return false
	}
	return ch.bottom == child && len(ch.parents) == 1
}

func build(s *history.Store, heads []history.Handle, chains []*chain, chainOf map[history.Handle]*chain, logger *log.Logger) (*history.Store, []history.Handle, error) {
	r := history.NewStore(len(chains))
	handleOf := make(map[*chain]history.Handle, len(chains))

	for _, ch := range chains {
		top, bottom := s.At(ch.top), s.At(ch.bottom)
		h, err := r.Add(&history.Commit{
			ID:       top.ID,
			TopID:    top.ID,
			BottomID: bottom.ID,
			Size:     ch.size,
			Refs:     top.Refs,
			Messages: ch.messages,
			Pin:      top.Pin,
		})
		if err != nil {
			return nil, nil, err
		}
		handleOf[ch] = h
	}

	for _, ch := range chains {
		node := r.At(handleOf[ch])
		node.Parents = make([]history.Handle, 0, len(ch.parents))
		for _, p := range ch.parents {
			pc, ok := chainOf[p]
			if !ok || pc.top != p {
				return nil, nil, errors.Internal("parent %s of chain %s is not the top of a chain", s.Name(p), node.Short())
			}
			node.Parents = append(node.Parents, handleOf[pc])
		}
	}

	newHeads := make([]history.Handle, 0, len(heads))
	for _, h := range heads {
		newHeads = append(newHeads, handleOf[chainOf[h]])
	}

	history.Bind(r, newHeads, logger)
	logger.Debug("reduced", "commits", s.Len(), "nodes", r.Len())
	return r, newHeads, nil
}
