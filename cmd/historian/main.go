package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/historian/internal/cli"
	herrors "github.com/matzehuels/historian/pkg/errors"
	"github.com/matzehuels/historian/pkg/render/text"
)

// Exit codes. Internal layout invariant failures get their own code so
// wrappers can tell a bug from bad input.
const (
	exitError    = 1
	exitInternal = 2
	exitCanceled = 130 // Standard shell convention for SIGINT
)

func main() {
	// Writes to a closed stdout then fail with EPIPE instead of killing the
	// process, so `historian | head` exits cleanly.
	signal.Ignore(syscall.SIGPIPE)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !text.IsBrokenPipe(err) {
		fmt.Fprintln(os.Stderr, "historian:", herrors.UserMessage(err))
	}
	if code := exitCode(err); code != 0 {
		cancel()
		os.Exit(code)
	}
}

// exitCode maps the result of a run to the process status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitCanceled
	case text.IsBrokenPipe(err):
		// The reader went away, e.g. `historian | head`.
		return 0
	case herrors.IsInternal(err):
		return exitInternal
	}
	return exitError
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
