package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/historian/pkg/pipeline"
)

// renderCommand creates the text rendering command, which doubles as the
// root command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		f      flags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Historian draws git commit graphs as text",
		Long: `Historian draws the commit graph of a git repository as compact text,
one commit per row, with merges and forks drawn as box-drawing connectors.

The history is read from the repository in the current directory, from
--repo, or from a listing produced by

  git log --all --pretty='%H %P%d#%s'

piped to stdin or given with --input.`,
		Example: `  historian
  historian --all --reduce
  git log --pretty='%H %P%d#%s' | historian --engine lanes
  historian --format json -o layout.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, c)
			if err != nil {
				return err
			}
			opts.Format = format
			return c.run(cmd.Context(), opts, output, f.noCache)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatText, "output format: text, json, dot, xdot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatText, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatXDOT},
		cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// run executes the pipeline and writes its output to the terminal or to
// output when set.
func (c *CLI) run(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := pipeline.ValidateFormat(opts.Format); err != nil {
		return err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var w io.Writer = c.out()
	var file *os.File
	if output != "" {
		if file, err = os.Create(output); err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		w = file
	}

	result, err := runner.Execute(ctx, w, opts)
	if err != nil {
		return err
	}
	logger.Debug("pipeline finished",
		"commits", result.Stats.Commits,
		"columns", result.Stats.Columns,
		"load_cached", result.CacheInfo.LoadHit,
		"render_cached", result.CacheInfo.RenderHit)

	if file == nil {
		return nil
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %s", opts.Format))
	printFile(output)
	printStats(result.Stats.Commits, result.Stats.Columns, result.CacheInfo.RenderHit)
	return nil
}
