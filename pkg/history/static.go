package history

import (
	"regexp"
	"strings"

	"github.com/matzehuels/historian/pkg/errors"
)

// StaticRule pins commits carrying a matching ref to a fixed column.
type StaticRule struct {
	// Pattern is a regular expression matched against each ref label.
	Pattern string `toml:"pattern" json:"pattern"`
	// Column is the fixed column for matching commits.
	Column int `toml:"column" json:"column"`
}

// DefaultStaticRules keeps releases in column 1 and hotfixes in column 0.
var DefaultStaticRules = []StaticRule{
	{Pattern: `^tag: r[0-9]+`, Column: 1},
	{Pattern: `release-`, Column: 1},
	{Pattern: `^tag: h[0-9]+`, Column: 0},
	{Pattern: `hotfix-`, Column: 0},
}

// Matcher is a compiled rule set.
type Matcher struct {
	rules   []*regexp.Regexp
	columns []int
}

// CompileRules compiles rules in order. The first rule matching any ref of
// a commit wins.
func CompileRules(rules []StaticRule) (*Matcher, error) {
	m := &Matcher{}
	for _, r := range rules {
		if r.Column < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "static rule %q has negative column %d", r.Pattern, r.Column)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "static rule %q", r.Pattern)
		}
		m.rules = append(m.rules, re)
		m.columns = append(m.columns, r.Column)
	}
	return m, nil
}

// Column returns the pinned column for refs, or Unassigned. A ref that no
// rule recognizes is not an error; the commit simply floats.
func (m *Matcher) Column(refs []string) int {
	if m == nil {
		return Unassigned
	}
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		for i, re := range m.rules {
			if re.MatchString(ref) {
				return m.columns[i]
			}
		}
	}
	return Unassigned
}

// PinStatic records the pinned column of every commit according to m and
// returns how many commits were pinned.
func (s *Store) PinStatic(m *Matcher) int {
	n := 0
	for _, c := range s.commits {
		c.Pin = m.Column(c.Refs)
		if c.Static() {
			n++
		}
	}
	return n
}
