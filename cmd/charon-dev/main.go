package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/charonsec/charon/internal/config"
	"github.com/charonsec/charon/internal/constants"
	"github.com/charonsec/charon/internal/execx"
	"github.com/charonsec/charon/internal/image"
	"github.com/charonsec/charon/internal/kube"
	"github.com/charonsec/charon/internal/lifecycle"
	"github.com/charonsec/charon/internal/logging"
	"github.com/charonsec/charon/internal/platform"
	"github.com/charonsec/charon/internal/preflight"
	"github.com/charonsec/charon/internal/secrets"
)

var version = "0.1.0"

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

	// An interrupt terminates whatever child is currently running
	// (logs and port-forward block until then).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "charon-dev",
		Short:         "Charon dev container manager",
		Long:          "Deploys and manages the Kali-based Charon development environment on a Kubernetes cluster.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newBuildCmd(),
		newNamespaceCmd(),
		newSecretsCmd(),
		newDeployCmd(),
		newStatusCmd(),
		newLogsCmd(),
		newExecCmd(),
		newPortForwardCmd(),
		newCleanupCmd(),
		newAllCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newManager() (*lifecycle.Manager, error) {
	client := kube.NewClient(runner, constants.Namespace)
	provisioner, err := secrets.NewProvisioner(client)
	if err != nil {
		return nil, err
	}
	builder := image.NewBuilder(runner, cfg.Registry, bool(cfg.SkipPush))
	return lifecycle.NewManager(client, provisioner, builder), nil
}

// checks gates a command on the preflight checks it needs. Help and
// unknown commands never reach these.
func checks(needsProjectRoot bool) error {
	if err := preflight.RequireKubectl(runner); err != nil {
		return err
	}
	if needsProjectRoot {
		return preflight.RequireProjectRoot()
	}
	return nil
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build, tag and push the dev container image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(true); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.Build(cmd.Context())
		},
	}
}

func newNamespaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "namespace",
		Short: "Create the dev namespace if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(false); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.EnsureNamespace(cmd.Context())
		},
	}
}

func newSecretsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secrets",
		Short: "Upload local credentials as cluster secrets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(false); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.Secrets(cmd.Context())
		},
	}
}

func newDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Apply the dev deployment and wait for readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(true); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.Deploy(cmd.Context())
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pods, services and ingress of the dev environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(false); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.Status(cmd.Context(), os.Stdout)
		},
	}
}

func newLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Stream logs from the dev container until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(false); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.Logs(cmd.Context())
		},
	}
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec",
		Short: "Open an interactive shell in the dev container",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(false); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.Exec(cmd.Context())
		},
	}
}

func newPortForwardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "port-forward",
		Aliases: []string{"pf"},
		Short:   "Forward local ports 8080, 8000 and 3000 into the dev pod",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(false); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.PortForward(cmd.Context())
		},
	}
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove the dev environment and its secrets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(false); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.Cleanup(cmd.Context())
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run build, namespace, secrets and deploy in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checks(true); err != nil {
				return err
			}
			m, err := newManager()
			if err != nil {
				return err
			}
			return m.All(cmd.Context())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("charon-dev version %s\n", version)
			cmd.Printf("Platform: %s\n", platform.Detect())
		},
	}
}
