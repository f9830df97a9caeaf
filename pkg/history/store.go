package history

import (
	"fmt"
	"strings"

	"github.com/matzehuels/historian/pkg/errors"
)

// Store owns every commit of a history and the layout fields the passes
// write. The zero value is not usable; use [Load] or [NewStore].
//
// Store is not safe for concurrent use. The layout pipeline is single
// threaded and each pass completes before the next begins.
type Store struct {
	commits []*Commit
	index   map[string]Handle
}

// NewStore returns an empty store with room for n commits.
func NewStore(n int) *Store {
	return &Store{
		commits: make([]*Commit, 0, n),
		index:   make(map[string]Handle, n),
	}
}

// Load builds a store from records and resolves every parent reference.
//
// Load fails with ErrCodeInvalidID for malformed ids, ErrCodeDuplicateCommit
// when an id appears twice, and ErrCodeMissingParent when a record names a
// parent that is not in the input. A dangling parent is never dropped.
func Load(records []Record) (*Store, error) {
	s := NewStore(len(records))
	for _, r := range records {
		if err := errors.ValidateCommitID(r.ID); err != nil {
			return nil, err
		}
		if _, dup := s.index[r.ID]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateCommit, "commit %s appears more than once", r.ID)
		}
		msgs := r.Messages
		if len(msgs) == 0 {
			msgs = []string{""}
		}
		s.add(&Commit{
			ID:       r.ID,
			TopID:    r.ID,
			BottomID: r.ID,
			Size:     1,
			Refs:     r.Refs,
			Messages: msgs,
			Pin:      Unassigned,
		})
	}

	for i, r := range records {
		c := s.commits[i]
		c.Parents = make([]Handle, 0, len(r.Parents))
		for _, p := range r.Parents {
			h, ok := s.index[p]
			if !ok {
				return nil, errors.New(errors.ErrCodeMissingParent, "commit %s references unknown parent %s", r.ID, p)
			}
			c.Parents = append(c.Parents, h)
		}
	}
	return s, nil
}

// Add appends a fully formed commit and returns its handle. Layout fields
// are reset. Add is used by transformations that build a derived store.
func (s *Store) Add(c *Commit) (Handle, error) {
	if _, dup := s.index[c.ID]; dup {
		return None, errors.New(errors.ErrCodeDuplicateCommit, "commit %s appears more than once", c.ID)
	}
	return s.add(c), nil
}

func (s *Store) add(c *Commit) Handle {
	h := Handle(len(s.commits))
	c.resetRow()
	c.resetColumn()
	s.commits = append(s.commits, c)
	s.index[c.ID] = h
	return h
}

// Len returns the number of commits in the store.
func (s *Store) Len() int { return len(s.commits) }

// At returns the commit for h. It panics if h is out of range, which can
// only happen when a handle from another store is used.
func (s *Store) At(h Handle) *Commit { return s.commits[h] }

// Valid reports whether h addresses a commit of this store.
func (s *Store) Valid(h Handle) bool { return h >= 0 && int(h) < len(s.commits) }

// Lookup returns the handle for an exact id.
func (s *Store) Lookup(id string) (Handle, bool) {
	h, ok := s.index[id]
	return h, ok
}

// Resolve finds a commit by exact id or by unique id prefix, the way short
// hashes are accepted on the command line.
func (s *Store) Resolve(name string) (Handle, error) {
	if h, ok := s.index[name]; ok {
		return h, nil
	}
	found := None
	for h, c := range s.commits {
		if !strings.HasPrefix(c.ID, name) {
			continue
		}
		if found != None {
			return None, errors.New(errors.ErrCodeUnknownHead, "ambiguous commit prefix %s", name)
		}
		found = Handle(h)
	}
	if found == None {
		return None, errors.New(errors.ErrCodeUnknownHead, "unknown commit %s", name)
	}
	return found, nil
}

// Handles returns every handle in insertion order.
func (s *Store) Handles() []Handle {
	hs := make([]Handle, len(s.commits))
	for i := range s.commits {
		hs[i] = Handle(i)
	}
	return hs
}

// IDs maps handles to commit ids.
func (s *Store) IDs(hs []Handle) []string {
	ids := make([]string, len(hs))
	for i, h := range hs {
		ids[i] = s.commits[h].ID
	}
	return ids
}

// ResetRows clears rows and row-chain links on every commit.
func (s *Store) ResetRows() {
	for _, c := range s.commits {
		c.resetRow()
	}
}

// ResetColumns clears columns and borders on every commit.
func (s *Store) ResetColumns() {
	for _, c := range s.commits {
		c.resetColumn()
	}
}

// Name formats a handle for diagnostics.
func (s *Store) Name(h Handle) string {
	if !s.Valid(h) {
		return fmt.Sprintf("<handle %d>", h)
	}
	return s.commits[h].Short()
}
