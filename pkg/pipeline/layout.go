package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/history/transform"
	"github.com/matzehuels/historian/pkg/layout"
)

// Layout is a history with rows and columns assigned, ready to render.
type Layout struct {
	Store *history.Store
	Heads []history.Handle

	// First is the top row; follow Commit.Bottom for the rest.
	First history.Handle

	// Width is the number of columns.
	Width int

	Engine string
	Pinned int
}

// Order returns the handles in row order.
func (l *Layout) Order() []history.Handle {
	var hs []history.Handle
	for h := l.First; h != history.None; h = l.Store.At(h).Bottom {
		hs = append(hs, h)
	}
	return hs
}

// BuildLayout runs every layout pass over records.
func BuildLayout(records []history.Record, opts Options) (*Layout, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	engine, err := layout.EngineFor(opts.Engine)
	if err != nil {
		return nil, err
	}
	rules, err := history.CompileRules(opts.Static)
	if err != nil {
		return nil, err
	}

	s, err := history.Load(records)
	if err != nil {
		return nil, err
	}
	heads, err := s.Heads(history.HeadOptions{Named: opts.Heads, All: opts.AllHeads})
	if err != nil {
		return nil, err
	}
	logHeads(s, heads, opts.Debug.Logger(opts.Logger, DebugHeads))

	history.Bind(s, heads, opts.Debug.Logger(opts.Logger, DebugBind))

	if opts.Reduce {
		before := s.Len()
		s, heads, err = transform.Reduce(s, heads, opts.Debug.Logger(opts.Logger, DebugLoad))
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("reduced chains", "commits", before, "nodes", s.Len())
	}

	pinned := s.PinStatic(rules)

	first, err := layout.Linearize(s, heads, opts.Debug.Logger(opts.Logger, DebugRows))
	if err != nil {
		return nil, err
	}
	if err := layout.Verify(s, first); err != nil {
		return nil, err
	}

	width, err := engine.Assign(s, heads, opts.Debug.Logger(opts.Logger, DebugColumns))
	if err != nil {
		return nil, err
	}
	if s.Len() > 0 && width < 1 {
		return nil, errors.Internal("engine %s assigned no columns to %d commits", engine.Name(), s.Len())
	}

	return &Layout{
		Store:  s,
		Heads:  heads,
		First:  first,
		Width:  width,
		Engine: engine.Name(),
		Pinned: pinned,
	}, nil
}

func logHeads(s *history.Store, heads []history.Handle, logger *log.Logger) {
	for i, h := range heads {
		logger.Debug("head", "index", i, "commit", s.Name(h), "refs", s.At(h).Refs)
	}
}
