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
	"github.com/charonsec/charon/internal/mounts"
	"github.com/charonsec/charon/internal/platform"
	"github.com/charonsec/charon/internal/report"
	"github.com/charonsec/charon/internal/startup"
)

var (
	cfg    config.Config
	runner execx.Runner = execx.ShellRunner{}
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "charon-init",
		Short:         "Dev container startup sequencer",
		Long:          "Prepares a freshly started dev container: host mounts, credentials, tooling and project dependencies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runStartup,
	}
	rootCmd.AddCommand(newMountsCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		report.Error("%v", err)
		os.Exit(1)
	}
}

func runStartup(cmd *cobra.Command, args []string) error {
	fmt.Println()
	report.Step("Starting development environment...")
	report.Step("Detected OS: %s", platform.Detect())
	fmt.Println()

	m, err := mounts.New(runner, cfg.Workspace, cfg.KubeconfigHost)
	if err != nil {
		return err
	}
	seq, err := startup.New(runner, m, cfg.Workspace)
	if err != nil {
		return err
	}
	if err := seq.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Println()
	report.Success("Dev container ready! Run 'terraform init' to get started.")
	fmt.Println()
	return nil
}

func newMountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mounts",
		Short: "Set up host mounts and config files only",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println()
			report.Step("Setting up development environment...")
			report.Step("Detected OS: %s", platform.Detect())
			fmt.Println()

			m, err := mounts.New(runner, cfg.Workspace, cfg.KubeconfigHost)
			if err != nil {
				return err
			}
			m.Run(cmd.Context())

			fmt.Println()
			report.Success("Mount setup complete!")
			fmt.Println()
			return nil
		},
	}
}
