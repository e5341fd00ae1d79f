// Package main is the grok command: an interactive coding agent that talks to
// xAI Grok (or Gemini) and runs tools in the current directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

type options struct {
	model      string
	provider   string
	mode       string
	debug      bool
	configPath string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

// exitError carries a process exit code for failures already reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "grok",
		Short:         "Interactive coding agent for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.model, "model", "", "model id (default: provider default)")
	flags.StringVar(&opts.provider, "provider", "", "model provider: xai or gemini")
	flags.StringVar(&opts.configPath, "config", "", "config file (default: ~/.config/grok/config.json)")
	root.Flags().StringVar(&opts.mode, "mode", "", "display mode: normal or debug (env GROK_MODE)")
	root.Flags().BoolVar(&opts.debug, "debug", false, "shorthand for --mode=debug; also enables debug logging")

	root.AddCommand(newVersionCmd(), newModelsCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "grok %s\n", version)
		},
	}
}

func newModelsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models available to the configured provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context(), opts)
			if err != nil {
				return report(cmd, err)
			}
			models, err := app.provider.ListModels(cmd.Context())
			if err != nil {
				return report(cmd, err)
			}
			current := app.provider.Model()
			for _, m := range models {
				marker := "  "
				if m == current {
					marker = "* "
				}
				fmt.Fprintln(cmd.OutOrStdout(), marker+m)
			}
			return nil
		},
	}
}

func report(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	var missing *missingKeyError
	if errors.As(err, &missing) {
		return &exitError{code: 2}
	}
	return &exitError{code: 1}
}
