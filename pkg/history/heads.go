package history

// HeadOptions selects the entry points for traversal.
type HeadOptions struct {
	// Named lists explicit entry points by id or unique id prefix, in the
	// order they should print from left to right.
	Named []string

	// All widens the head set to every commit no other commit names as a
	// parent, appended after the named heads in input order.
	All bool
}

// Heads returns the traversal entry points.
//
// With neither Named nor All set, the first commit in the store is the
// single head, matching the first line of a `git log` listing.
func (s *Store) Heads(opts HeadOptions) ([]Handle, error) {
	var heads []Handle
	seen := make(map[Handle]bool)

	for _, name := range opts.Named {
		h, err := s.Resolve(name)
		if err != nil {
			return nil, err
		}
		if !seen[h] {
			seen[h] = true
			heads = append(heads, h)
		}
	}

	if opts.All {
		referenced := make([]bool, len(s.commits))
		for _, c := range s.commits {
			for _, p := range c.Parents {
				referenced[p] = true
			}
		}
		for i := range s.commits {
			h := Handle(i)
			if !referenced[i] && !seen[h] {
				seen[h] = true
				heads = append(heads, h)
			}
		}
	}

	if len(heads) == 0 && len(s.commits) > 0 {
		heads = append(heads, 0)
	}
	return heads, nil
}
