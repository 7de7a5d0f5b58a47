// Package preflight gates mutating commands on the environment being
// usable: the cluster CLI must be on PATH and the process must run from
// the project root. Both checks are read-only.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charonsec/charon/internal/constants"
	"github.com/charonsec/charon/internal/execx"
)

// Timeout for availability probes.
const probeTimeout = 10 * time.Second

// KubectlAvailable reports whether the kubectl CLI is installed and
// runnable. Any failure, not-found included, counts as unavailable.
func KubectlAvailable(r execx.Runner) bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	_, err := r.Capture(ctx, "kubectl", "version", "--client")
	return err == nil
}

// InProjectRoot reports whether dir contains the devcontainer
// Dockerfile, used as the project-root marker.
func InProjectRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, constants.DockerfilePath))
	return err == nil
}

// RequireKubectl returns an error suitable for aborting a command when
// kubectl is unavailable.
func RequireKubectl(r execx.Runner) error {
	if !KubectlAvailable(r) {
		return errors.New("kubectl is not installed or not in PATH")
	}
	return nil
}

// RequireProjectRoot returns an error when the current working
// directory is not the project root.
func RequireProjectRoot() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	if !InProjectRoot(cwd) {
		return fmt.Errorf("run this command from the %s project root directory", constants.ProjectSlug)
	}
	return nil
}
