// Package source defines where commit histories come from.
//
// A [Source] produces history records in print order, newest first, the way
// `git log` lists them. The first record is the default head. Sources never
// build graphs themselves; the history package validates and links the
// records.
//
// Two sources live in this package tree:
//
//   - [Reader] parses the line format of `git log --pretty='%H %P%d#%s'`,
//     or JSON records, from a file or standard input.
//   - [git.Repository] walks a repository on disk through go-git.
//
// Sources whose content can be identified cheaply implement [Keyed] so their
// records can be cached.
//
// [git.Repository]: github.com/matzehuels/historian/pkg/source/git.Repository
package source

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/history"
)

// Source loads commit records.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string
	Load(ctx context.Context, opts Options) ([]history.Record, error)
}

// Keyed is implemented by sources that can name their current content. Two
// loads with the same key return the same records.
type Keyed interface {
	CacheKey(ctx context.Context, opts Options) (string, error)
}

// Options controls what a source loads.
type Options struct {
	// All loads every branch and tag instead of HEAD only.
	All bool
	// Limit caps the number of records; zero means no limit.
	Limit int
	// Logger traces loading at debug level; nil discards.
	Logger *log.Logger
}

// Truncate keeps the first limit records and drops parent references that
// point outside them, so a shortened log still loads. A limit of zero or
// less keeps everything.
func Truncate(records []history.Record, limit int) []history.Record {
	if limit <= 0 || len(records) <= limit {
		return records
	}
	kept := slices.Clone(records[:limit])
	ids := make(map[string]bool, limit)
	for _, r := range kept {
		ids[r.ID] = true
	}
	for i, r := range kept {
		parents := r.Parents[:0:0]
		for _, p := range r.Parents {
			if ids[p] {
				parents = append(parents, p)
			}
		}
		kept[i].Parents = parents
	}
	return kept
}
