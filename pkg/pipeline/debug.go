package pipeline

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/errors"
)

// Debug selects which passes trace their decisions.
type Debug uint

const (
	DebugHeads Debug = 1 << iota
	DebugLoad
	DebugBind
	DebugRows
	DebugColumns
	DebugLayout

	DebugAll = DebugHeads | DebugLoad | DebugBind | DebugRows | DebugColumns | DebugLayout
)

var debugNames = []struct {
	bit  Debug
	name string
}{
	{DebugHeads, "heads"},
	{DebugLoad, "load"},
	{DebugBind, "bind"},
	{DebugRows, "rows"},
	{DebugColumns, "columns"},
	{DebugLayout, "layout"},
}

var discard = log.New(io.Discard)

// ParseDebug accepts a number (the bitmask) or a comma separated list of
// pass names, with "all" selecting every pass.
func ParseDebug(s string) (Debug, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseUint(s, 0, 8); err == nil {
		if Debug(n)&^DebugAll != 0 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "debug mask %s has unknown bits", s)
		}
		return Debug(n), nil
	}

	var d Debug
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "all" {
			d |= DebugAll
			continue
		}
		found := false
		for _, n := range debugNames {
			if n.name == part {
				d |= n.bit
				found = true
			}
		}
		if !found {
			return 0, errors.New(errors.ErrCodeInvalidInput, "unknown debug pass %q", part)
		}
	}
	return d, nil
}

func (d Debug) String() string {
	var names []string
	for _, n := range debugNames {
		if d&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// Logger returns a debug level logger prefixed with the pass name when bit
// is selected, and a logger discarding everything otherwise.
func (d Debug) Logger(base *log.Logger, bit Debug) *log.Logger {
	if base == nil || d&bit == 0 {
		return discard
	}
	l := base.WithPrefix(bit.String())
	l.SetLevel(log.DebugLevel)
	return l
}
