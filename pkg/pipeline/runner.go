package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/cache"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/observability"
	"github.com/matzehuels/historian/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline and writes the
// output to w.
//
// Text output streams straight to w. The other formats are rendered into
// memory first so they can be cached by history content and options.
func (r *Runner) Execute(ctx context.Context, w io.Writer, opts Options) (*Result, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	records, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Commits = len(records)
	result.CacheInfo.LoadHit = loadHit
	result.HistoryHash = HashRecords(records)

	r.Logger.Debug("loaded history",
		"source", opts.Source.Name(),
		"commits", len(records),
		"cached", loadHit,
		"duration", result.Stats.LoadTime)

	artifactKey := r.Keyer.ArtifactKey(result.HistoryHash, opts.ArtifactKeyOpts())
	if opts.Format != FormatText && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, artifactKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			n, err := w.Write(data)
			result.Written = int64(n)
			result.CacheInfo.RenderHit = true
			return result, err
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	l, err := r.Layout(ctx, records, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Columns = l.Width

	r.Logger.Debug("computed layout",
		"engine", l.Engine,
		"rows", l.Store.Len(),
		"columns", l.Width,
		"static", l.Pinned,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	if opts.Format == FormatText {
		result.Written, err = r.Render(ctx, w, l, opts)
	} else {
		var buf bytes.Buffer
		if _, err = r.Render(ctx, &buf, l, opts); err == nil {
			_ = r.Cache.Set(ctx, artifactKey, buf.Bytes(), TTLArtifact)
			observability.Cache().OnCacheSet(ctx, "artifact", buf.Len())
			var n int
			n, err = w.Write(buf.Bytes())
			result.Written = int64(n)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered output",
		"format", opts.Format,
		"bytes", result.Written,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads records from opts.Source and reports whether they
// came from the cache. Only sources implementing [source.Keyed] are cached.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]history.Record, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	src := opts.Source

	var cacheKey string
	if keyed, ok := src.(source.Keyed); ok {
		if sourceKey, err := keyed.CacheKey(ctx, opts.SourceOptions()); err == nil {
			cacheKey = r.Keyer.HistoryKey(src.Name(), sourceKey, opts.HistoryKeyOpts())
		} else {
			r.Logger.Debug("source has no cache key", "source", src.Name(), "err", err)
		}
	}

	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var records []history.Record
			if err := json.Unmarshal(data, &records); err == nil {
				observability.Cache().OnCacheHit(ctx, "history")
				return records, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "history")
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, src.Name())
	records, err := src.Load(ctx, opts.SourceOptions())
	observability.Pipeline().OnLoadComplete(ctx, src.Name(), len(records), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(records); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, TTLHistory)
			observability.Cache().OnCacheSet(ctx, "history", len(data))
		}
	}
	return records, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]history.Record, error) {
	records, _, err := r.LoadWithCacheInfo(ctx, opts)
	return records, err
}

// Layout runs the layout passes over records.
func (r *Runner) Layout(ctx context.Context, records []history.Record, opts Options) (*Layout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Engine, len(records))
	l, err := BuildLayout(records, opts)
	width := 0
	if l != nil {
		width = l.Width
	}
	observability.Pipeline().OnLayoutComplete(ctx, opts.Engine, width, time.Since(start), err)
	return l, err
}

// Render writes l to w in opts.Format and returns the bytes written.
func (r *Runner) Render(ctx context.Context, w io.Writer, l *Layout, opts Options) (int64, error) {
	r.applyLogger(&opts)
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	n, err := Render(ctx, w, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, int(n), time.Since(start), err)
	return n, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// HashRecords returns the content hash artifacts are keyed by.
func HashRecords(records []history.Record) string {
	data, _ := json.Marshal(records)
	return cache.Hash(data)
}
