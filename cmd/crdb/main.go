package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crdb/internal/cli"
	crdberrors "github.com/matzehuels/crdb/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", crdberrors.UserMessage(err))
		var e *crdberrors.Error
		if crdberrors.As(err, &e) && e.URL != "" {
			fmt.Fprintln(os.Stderr, "Query:", e.URL)
		}
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps error codes to distinct exit statuses so scripts can tell a
// bad query from an unreachable server.
func exitCode(err error) int {
	switch crdberrors.GetCode(err) {
	case crdberrors.ErrCodeInvalidInput, crdberrors.ErrCodeInvalidParameter:
		return 2
	case crdberrors.ErrCodeQueryError, crdberrors.ErrCodeNotFound:
		return 3
	case crdberrors.ErrCodeNetwork, crdberrors.ErrCodeTimeout:
		return 4
	default:
		return 1
	}
}
