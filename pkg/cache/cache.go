// Package cache memoizes pipeline stages as opaque bytes.
//
// Two stages are worth caching for a commit graph: loading the records
// from a repository (walking a large history is the slowest step) and the
// rendered artifact for one set of layout and render options. [Keyer]
// names both; [Cache] stores them.
//
// Implementations:
//
//   - [FileCache] persists entries under a directory for CLI runs.
//   - [MemoryCache] keeps a bounded LRU in process, used by the pager to
//     avoid re-rendering when toggling between views.
//   - [NullCache] stores nothing.
package cache

import (
	"context"
	"time"
)

// Cache stores byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data; a ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// HistoryKeyOpts are the load options that change which records a source
// returns.
type HistoryKeyOpts struct {
	All   bool `json:"all"`
	Limit int  `json:"limit"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string   `json:"format"`
	Engine      string   `json:"engine"`
	Heads       []string `json:"heads"`
	AllHeads    bool     `json:"all_heads"`
	Reduce      bool     `json:"reduce"`
	Static      []string `json:"static"`
	Width       int      `json:"width"`
	Orientation string   `json:"orientation"`
	Markers     string   `json:"markers"`
	Palette     string   `json:"palette"`
	Oneline     bool     `json:"oneline"`
	Detailed    bool     `json:"detailed"`
}

// Keyer derives cache keys.
type Keyer interface {
	// HistoryKey names the records of a source whose content key is
	// sourceKey.
	HistoryKey(source, sourceKey string, opts HistoryKeyOpts) string
	// ArtifactKey names a rendering of the history identified by
	// historyHash.
	ArtifactKey(historyHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HistoryKey implements Keyer.
func (DefaultKeyer) HistoryKey(source, sourceKey string, opts HistoryKeyOpts) string {
	return hashKey("history", source, sourceKey, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(historyHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", historyHash, opts)
}
