package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/charonsec/charon/internal/config"
	"github.com/charonsec/charon/internal/execx"
	"github.com/charonsec/charon/internal/logging"
	"github.com/charonsec/charon/internal/report"
	"github.com/charonsec/charon/internal/setup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tool := setup.New(execx.ShellRunner{}, cwd)

	rootCmd := &cobra.Command{
		Use:           "charon-setup",
		Short:         "Project setup utility",
		Long:          "Common setup commands for development: environment creation, cleanup, lint and test dispatch.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "setup",
			Short: "Set up the development environment",
			RunE: func(cmd *cobra.Command, args []string) error {
				return tool.Environment(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Clean build artifacts and caches",
			RunE: func(cmd *cobra.Command, args []string) error {
				return tool.Clean()
			},
		},
		&cobra.Command{
			Use:   "lint",
			Short: "Run linting tools",
			RunE: func(cmd *cobra.Command, args []string) error {
				return tool.Lint(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "test",
			Short: "Run tests",
			RunE: func(cmd *cobra.Command, args []string) error {
				return tool.Test(cmd.Context())
			},
		},
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		report.Error("%v", err)
		os.Exit(1)
	}
}
