// Package git loads commit histories straight from a git repository using
// go-git, without shelling out to the git binary.
//
// Records come out in committer-time order, newest first, with the commit
// HEAD points at moved to the front so it becomes the default head. Ref
// labels are rendered the way `git log --decorate` prints them:
// "HEAD -> main", "origin/main", "tag: v1.0".
package git

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/source"
)

// Repository is a source reading the repository at or above Path.
type Repository struct {
	Path string
}

var (
	_ source.Source = (*Repository)(nil)
	_ source.Keyed  = (*Repository)(nil)
)

// Open returns a source for the repository containing path.
func Open(path string) *Repository { return &Repository{Path: path} }

// Name implements source.Source.
func (r *Repository) Name() string { return "git:" + r.Path }

func (r *Repository) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(r.Path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open repository %s", r.Path)
	}
	return repo, nil
}

// Load implements source.Source.
func (r *Repository) Load(ctx context.Context, opts source.Options) ([]history.Record, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "resolve HEAD in %s", r.Path)
	}
	labels, err := decorations(repo)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Log(&gogit.LogOptions{
		From:  head.Hash(),
		All:   opts.All,
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", r.Path, err)
	}
	defer iter.Close()

	var records []history.Record
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		parents := make([]string, len(c.ParentHashes))
		for i, p := range c.ParentHashes {
			parents[i] = p.String()
		}
		summary, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
		records = append(records, history.Record{
			ID:       c.Hash.String(),
			Parents:  parents,
			Refs:     labels[c.Hash],
			Messages: []string{strings.TrimSpace(summary)},
		})
		if opts.Limit > 0 && len(records) >= opts.Limit && !opts.All {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", r.Path, err)
	}

	records = headFirst(records, head.Hash().String())
	records = source.Truncate(records, opts.Limit)
	if opts.Logger != nil {
		opts.Logger.Debug("loaded repository", "path", r.Path, "head", head.Hash().String()[:7], "records", len(records))
	}
	return records, nil
}

// CacheKey implements source.Keyed. The key covers every ref and what it
// points at, so any commit, fetch or checkout changes it.
func (r *Repository) CacheKey(ctx context.Context, opts source.Options) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	refs, err := repo.References()
	if err != nil {
		return "", fmt.Errorf("list refs: %w", err)
	}
	var lines []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines = append(lines, ref.String())
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("list refs: %w", err)
	}
	slices.Sort(lines)

	h := sha256.New()
	fmt.Fprintf(h, "all=%t limit=%d\n", opts.All, opts.Limit)
	for _, l := range lines {
		fmt.Fprintln(h, l)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// decorations maps commits to their ref labels in the order git prints
// them: HEAD, local branches, remote branches, tags.
func decorations(repo *gogit.Repository) (map[plumbing.Hash][]string, error) {
	labels := make(map[plumbing.Hash][]string)

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	var headBranch plumbing.ReferenceName
	if head.Type() == plumbing.SymbolicReference {
		headBranch = head.Target()
	}

	var branches, remotes, tags []*plumbing.Reference
	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		switch name := ref.Name(); {
		case name.IsBranch():
			branches = append(branches, ref)
		case name.IsRemote():
			remotes = append(remotes, ref)
		case name.IsTag():
			tags = append(tags, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	if resolved, err := repo.Head(); err == nil {
		label := "HEAD"
		if headBranch != "" {
			label = "HEAD -> " + headBranch.Short()
		}
		labels[resolved.Hash()] = append(labels[resolved.Hash()], label)
	}
	byName := func(a, b *plumbing.Reference) int { return strings.Compare(a.Name().String(), b.Name().String()) }
	for _, group := range [][]*plumbing.Reference{branches, remotes} {
		slices.SortFunc(group, byName)
		for _, ref := range group {
			if ref.Name() == headBranch {
				continue
			}
			labels[ref.Hash()] = append(labels[ref.Hash()], ref.Name().Short())
		}
	}
	slices.SortFunc(tags, byName)
	for _, ref := range tags {
		target := ref.Hash()
		if tag, err := repo.TagObject(target); err == nil {
			target = tag.Target
		}
		labels[target] = append(labels[target], "tag: "+ref.Name().Short())
	}
	return labels, nil
}

// headFirst moves the record with id to the front, keeping the others in
// order.
func headFirst(records []history.Record, id string) []history.Record {
	i := slices.IndexFunc(records, func(r history.Record) bool { return r.ID == id })
	if i <= 0 {
		return records
	}
	head := records[i]
	copy(records[1:i+1], records[:i])
	records[0] = head
	return records
}
