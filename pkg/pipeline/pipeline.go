// Package pipeline provides the load → layout → render pipeline behind
// every historian command.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read commit records from a [source.Source], cached by the
//     source's content key when it has one
//  2. Layout: build the store, bind children, optionally fold chains, pin
//     static columns, then assign rows and columns
//  3. Render: draw the layout as text, DOT, positioned DOT or JSON
//
// Each stage completes before the next starts; only the text output is
// produced lazily, one row at a time.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source: git.Open("."),
//	    Engine: layout.EngineGrid,
//	    Format: pipeline.FormatText,
//	}
//	result, err := runner.Execute(ctx, os.Stdout, opts)
//
// Run individual stages:
//
//	records, err := runner.Load(ctx, opts)
//	l, err := runner.Layout(ctx, records, opts)
//	n, err := runner.Render(ctx, w, l, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/historian/pkg/cache"
	"github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/history"
	"github.com/matzehuels/historian/pkg/layout"
	"github.com/matzehuels/historian/pkg/render/text"
	"github.com/matzehuels/historian/pkg/source"
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatDOT  = "dot"
	FormatXDOT = "xdot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatDOT:  true,
	FormatXDOT: true,
	FormatJSON: true,
}

// TTLHistory bounds how long loaded records stay cached. Sources key their
// records by content, so this only limits disk growth.
const TTLHistory = 7 * 24 * time.Hour

// TTLArtifact bounds how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options
	Source  source.Source `json:"-"`
	All     bool          `json:"all,omitempty"`   // load every ref, not only HEAD
	Limit   int           `json:"limit,omitempty"` // newest commits to load, 0 for all
	Refresh bool          `json:"refresh,omitempty"`

	// Layout options
	Heads    []string             `json:"heads,omitempty"`
	AllHeads bool                 `json:"all_heads,omitempty"`
	Reduce   bool                 `json:"reduce,omitempty"`
	Engine   string               `json:"engine,omitempty"`
	Static   []history.StaticRule `json:"static,omitempty"`

	// Render options
	Format      string           `json:"format,omitempty"`
	Width       int              `json:"width,omitempty"`
	Orientation text.Orientation `json:"orientation,omitempty"`
	Markers     text.Markers     `json:"markers,omitempty"`
	Color       string           `json:"color,omitempty"`
	Decorate    bool             `json:"decorate,omitempty"`
	Oneline     bool             `json:"oneline,omitempty"`
	Detailed    bool             `json:"detailed,omitempty"` // DOT labels with rows, columns and refs

	// Runtime options (not serialized)
	Debug  Debug       `json:"-"`
	Logger *log.Logger `json:"-"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be one of: text, dot, xdot, json)", format)
	}
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Engine == "" {
		o.Engine = layout.EngineGrid
	}
	if o.Format == "" {
		o.Format = FormatText
	}
	if o.Width < 1 {
		o.Width = 1
	}
	if o.Static == nil {
		o.Static = slices.Clone(history.DefaultStaticRules)
	}
	if o.Color == "" {
		o.Color = text.ColorAuto
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every option that can be checked
// without loading the history.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "limit must not be negative, got %d", o.Limit)
	}
	if _, err := layout.EngineFor(o.Engine); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if _, err := history.CompileRules(o.Static); err != nil {
		return err
	}
	return nil
}

// ValidateForLoad checks the options the load stage needs.
func (o *Options) ValidateForLoad() error {
	if o.Source == nil {
		return errors.New(errors.ErrCodeInvalidInput, "a history source is required")
	}
	return o.Validate()
}

// SourceOptions returns the options handed to the source.
func (o *Options) SourceOptions() source.Options {
	return source.Options{All: o.All, Limit: o.Limit, Logger: o.Debug.Logger(o.Logger, DebugLoad)}
}

// HistoryKeyOpts returns cache key options for loaded records.
func (o *Options) HistoryKeyOpts() cache.HistoryKeyOpts {
	return cache.HistoryKeyOpts{All: o.All, Limit: o.Limit}
}

// ArtifactKeyOpts returns cache key options for a rendered artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	static := make([]string, len(o.Static))
	for i, r := range o.Static {
		static[i] = fmt.Sprintf("%s=%d", r.Pattern, r.Column)
	}
	return cache.ArtifactKeyOpts{
		Format:      o.Format,
		Engine:      o.Engine,
		Heads:       o.Heads,
		AllHeads:    o.AllHeads,
		Reduce:      o.Reduce,
		Static:      static,
		Width:       o.Width,
		Orientation: o.Orientation.String(),
		Markers:     o.Markers.String(),
		Oneline:     o.Oneline,
		Detailed:    o.Detailed,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed layout; nil when the artifact came from cache.
	Layout *Layout

	// HistoryHash is the content hash of the loaded records.
	HistoryHash string

	// Written counts the bytes written to the output.
	Written int64

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Commits    int
	Columns    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool
	RenderHit bool
}
