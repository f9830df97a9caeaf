package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/historian/pkg/pipeline"
)

// dotCommand exports the laid out graph for Graphviz.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		f        flags
		output   string
		position bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Export the commit graph as Graphviz DOT",
		Long: `Export the commit graph as Graphviz DOT. Nodes keep the rows and
columns of the text layout: each column becomes a colored lane and pinned
commits are drawn as diamonds.

With --position the bundled Graphviz lays the graph out and the output
carries node coordinates and edge splines.`,
		Example: `  historian dot | dot -Tpng -o graph.png
  historian dot --position --detailed -o graph.dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, c)
			if err != nil {
				return err
			}
			opts.Format = pipeline.FormatDOT
			if position {
				opts.Format = pipeline.FormatXDOT
			}
			opts.Detailed = detailed
			return c.run(cmd.Context(), opts, output, f.noCache)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&position, "position", false, "add Graphviz node positions to the output")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with messages and refs")

	return cmd
}
