package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/historian/pkg/layout"
	"github.com/matzehuels/historian/pkg/pipeline"
	"github.com/matzehuels/historian/pkg/render/text"
	"github.com/matzehuels/historian/pkg/source"
	"github.com/matzehuels/historian/pkg/source/git"
)

// flags holds the options shared by every command that draws a history.
type flags struct {
	config string
	input  string
	repo   string

	heads  []string
	all    bool
	limit  int
	reduce bool
	engine string

	hflip    bool
	vflip    bool
	width    int
	markers  string
	color    string
	decorate bool
	oneline  bool

	debug   string
	noCache bool
	refresh bool
}

func (f *flags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "config file (default ~/.config/historian/config.toml)")
	fl.StringVarP(&f.input, "input", "i", "", "read a `git log --pretty='%H %P%d#%s'` listing or JSON from a file, - for stdin")
	fl.StringVarP(&f.repo, "repo", "C", "", "repository to read (default: current directory)")

	fl.StringArrayVar(&f.heads, "head", nil, "start from this commit (repeatable, prefixes accepted)")
	fl.BoolVarP(&f.all, "all", "a", false, "show every branch and tag, not only HEAD")
	fl.IntVarP(&f.limit, "limit", "n", 0, "show only the newest N commits")
	fl.BoolVarP(&f.reduce, "reduce", "r", false, "fold linear runs of commits into one node")
	fl.StringVarP(&f.engine, "engine", "e", layout.EngineGrid, "column engine: grid, lanes, none")

	fl.BoolVar(&f.hflip, "hflip", false, "draw right to left")
	fl.BoolVar(&f.vflip, "vflip", false, "draw oldest commit first")
	fl.IntVarP(&f.width, "width", "w", 1, "width of the gaps between columns")
	fl.StringVar(&f.markers, "markers", "default", "node markers: default, chain")
	fl.StringVar(&f.color, "color", text.ColorAuto, "colorize output: auto, always, never")
	fl.BoolVar(&f.decorate, "decorate", true, "prefix messages with the short id and refs")
	fl.BoolVar(&f.oneline, "oneline", false, "show only the first message line of folded chains")

	fl.StringVar(&f.debug, "debug", "", "trace layout passes: mask or list of heads,load,bind,rows,columns,layout")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the history cache")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached entries and reload")

	_ = cmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions(layout.Engines, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("color", cobra.FixedCompletions([]string{text.ColorAuto, text.ColorAlways, text.ColorNever}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("markers", cobra.FixedCompletions([]string{"default", "chain"}, cobra.ShellCompDirectiveNoFileComp))
}

// options merges the config file under the flags and builds validated
// pipeline options.
func (f *flags) options(cmd *cobra.Command, c *CLI) (pipeline.Options, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}

	set := cmd.Flags().Changed
	fromConfig(set("engine"), &f.engine, cfg.Engine)
	fromConfig(set("reduce"), &f.reduce, cfg.Reduce)
	fromConfig(set("all"), &f.all, cfg.All)
	fromConfig(set("limit"), &f.limit, cfg.Limit)
	fromConfig(set("width"), &f.width, cfg.Width)
	fromConfig(set("markers"), &f.markers, cfg.Markers)
	fromConfig(set("color"), &f.color, cfg.Color)
	fromConfig(set("decorate"), &f.decorate, cfg.Decorate)
	fromConfig(set("oneline"), &f.oneline, cfg.Oneline)
	fromConfig(set("debug"), &f.debug, cfg.Debug)

	orientation := text.Flip(f.hflip, f.vflip)
	if !set("hflip") && !set("vflip") && cfg.Orientation != nil {
		if orientation, err = text.ParseOrientation(*cfg.Orientation); err != nil {
			return pipeline.Options{}, err
		}
	}
	markers, err := text.ParseMarkers(f.markers)
	if err != nil {
		return pipeline.Options{}, err
	}
	debug, err := pipeline.ParseDebug(f.debug)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		Source:      c.source(f),
		All:         f.all,
		Limit:       f.limit,
		Refresh:     f.refresh,
		Heads:       f.heads,
		AllHeads:    f.all,
		Reduce:      f.reduce,
		Engine:      f.engine,
		Static:      cfg.Static,
		Width:       f.width,
		Orientation: orientation,
		Markers:     markers,
		Color:       f.color,
		Decorate:    f.decorate,
		Oneline:     f.oneline,
		Debug:       debug,
		Logger:      c.Logger,
	}
	return opts, opts.Validate()
}

func (f *flags) loadConfig() (Config, error) {
	if f.config != "" {
		return loadConfig(f.config, true)
	}
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	return loadConfig(path, false)
}

func fromConfig[T any](changed bool, dst *T, v *T) {
	if !changed && v != nil {
		*dst = *v
	}
}

// source picks where the history comes from: an explicit input, a piped
// listing on stdin, or the repository.
func (c *CLI) source(f *flags) source.Source {
	switch {
	case f.input == "-":
		return source.Stream("stdin", c.in())
	case f.input != "":
		return source.File(f.input)
	case f.repo == "" && c.In == nil && stdinPiped():
		return source.Stream("stdin", os.Stdin)
	}
	repo := f.repo
	if repo == "" {
		repo = "."
	}
	return git.Open(repo)
}

func stdinPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
