// Package mounts provisions credentials and optional config files
// inside the dev container from host mounts. Every step is best effort:
// missing host material is reported and skipped, never fatal.
package mounts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charonsec/charon/internal/constants"
	"github.com/charonsec/charon/internal/execx"
	"github.com/charonsec/charon/internal/platform"
	"github.com/charonsec/charon/internal/report"
)

// Host mount locations populated by the container runtime.
const (
	hostKubeMount   = "/mnt/host-kube/config"
	hostSSHMount    = "/mnt/host-ssh"
	hostGitMount    = "/mnt/host-gitconfig"
	hostEnvMount    = "/mnt/host-env"
	hostTfvarsMount = "/mnt/host-tfvars"
)

// Setup copies host-mounted credential material into the container
// user's home and links optional workspace files.
type Setup struct {
	run       execx.Runner
	home      string
	workspace string

	// host mount paths, overridable in tests
	hostKube   string
	hostSSH    string
	hostGit    string
	hostEnv    string
	hostTfvars string

	// kubeconfigHost is the KUBECONFIG_HOST override.
	kubeconfigHost string

	// canSymlink is false on native Windows, where workspace links are
	// materialized as copies instead.
	canSymlink bool
}

// New creates a Setup for the current user's home directory.
func New(r execx.Runner, workspace, kubeconfigHost string) (*Setup, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	s := NewWithPaths(r, home, workspace)
	s.kubeconfigHost = kubeconfigHost
	return s, nil
}

// NewWithPaths creates a Setup rooted at explicit directories. Used by
// tests.
func NewWithPaths(r execx.Runner, home, workspace string) *Setup {
	return &Setup{
		run:        r,
		home:       home,
		workspace:  workspace,
		hostKube:   hostKubeMount,
		hostSSH:    hostSSHMount,
		hostGit:    hostGitMount,
		hostEnv:    hostEnvMount,
		hostTfvars: hostTfvarsMount,
		canSymlink: !platform.IsWindows(),
	}
}

// Run executes every mount setup step. Individual steps report and
// tolerate missing host material; Run itself never fails.
func (s *Setup) Run(ctx context.Context) {
	s.Kubeconfig()
	s.SSHKeys()
	s.GitConfig(ctx)
	s.EnvFile()
	s.TerraformVars()
}

// Kubeconfig places a kubeconfig at ~/.kube/config, preferring the
// KUBECONFIG_HOST override over the host mount.
func (s *Setup) Kubeconfig() {
	dest := filepath.Join(s.home, ".kube", "config")

	if s.kubeconfigHost != "" {
		if err := copyFile(s.kubeconfigHost, dest, constants.PrivateFilePermissions); err == nil {
			report.Success("Kubeconfig copied from %s", s.kubeconfigHost)
			return
		}
	}

	if fileExists(s.hostKube) {
		err := copyFile(s.hostKube, dest, constants.PrivateFilePermissions)
		if err == nil {
			report.Success("Kubeconfig copied from host mount")
			return
		}
		report.Error("Failed to copy kubeconfig: %v", err)
	}

	if fileExists(dest) {
		report.Success("Kubeconfig already exists")
	} else {
		report.Info("No kubeconfig found. Configure kubectl manually or mount ~/.kube/config")
	}
}

// SSHKeys copies the host SSH directory into ~/.ssh with key-type
// permissions.
func (s *Setup) SSHKeys() {
	dest := filepath.Join(s.home, ".ssh")

	if dirHasEntries(s.hostSSH) {
		if err := copySSHDir(s.hostSSH, dest); err != nil {
			report.Error("Failed to copy SSH keys: %v", err)
			return
		}
		if err := os.Chmod(dest, constants.PrivateDirPermissions); err != nil {
			report.Error("Failed to restrict %s: %v", dest, err)
			return
		}
		report.Success("SSH keys copied from host mount")
		return
	}

	if dirHasEntries(dest) {
		report.Success("SSH keys already exist")
	} else {
		report.Info("No SSH keys found. Generate them with: ssh-keygen -t ed25519 -C 'your_email@example.com'")
	}
}

// GitConfig copies the host .gitconfig or, when neither a mount nor an
// existing config is present, writes basic repo-wide defaults.
func (s *Setup) GitConfig(ctx context.Context) {
	dest := filepath.Join(s.home, ".gitconfig")

	if fileExists(s.hostGit) {
		err := copyFile(s.hostGit, dest, constants.FilePermissions)
		if err == nil {
			report.Success("Git config copied from host mount")
			return
		}
		report.Error("Failed to copy git config: %v", err)
	}

	if fileExists(dest) {
		report.Success("Git config already exists")
		return
	}

	report.Info("No git config found. Setting basic defaults...")
	if err := s.run.Run(ctx, "git", "config", "--global", "init.defaultBranch", "main"); err != nil {
		report.Error("Failed to set git defaults: %v", err)
		return
	}
	if err := s.run.Run(ctx, "git", "config", "--global", "pull.rebase", "false"); err != nil {
		report.Error("Failed to set git defaults: %v", err)
		return
	}
	report.Success("Basic git config created")
}

// EnvFile links the workspace .env to the host-provided one when the
// workspace has none of its own.
func (s *Setup) EnvFile() {
	envFile := filepath.Join(s.workspace, ".env")

	if fileExists(envFile) {
		report.Success(".env file found in workspace")
		return
	}
	if !fileExists(s.hostEnv) {
		report.Info("No .env file found. Create one if needed for secrets.")
		return
	}
	if err := s.link(s.hostEnv, envFile); err != nil {
		report.Error("Failed to link .env: %v", err)
		return
	}
	report.Success(".env linked from host")
}

// TerraformVars links terraform/terraform.tfvars from the host mount
// when the workspace has none.
func (s *Setup) TerraformVars() {
	terraformDir := filepath.Join(s.workspace, "terraform")
	tfvars := filepath.Join(terraformDir, "terraform.tfvars")

	if fileExists(tfvars) {
		report.Success("terraform.tfvars found in workspace")
		return
	}
	if !fileExists(s.hostTfvars) {
		report.Info("No terraform.tfvars found. Copy from terraform.tfvars.example if needed.")
		return
	}
	if err := os.MkdirAll(terraformDir, constants.DirPermissions); err != nil {
		report.Error("Failed to create terraform dir: %v", err)
		return
	}
	if err := s.link(s.hostTfvars, tfvars); err != nil {
		report.Error("Failed to link terraform.tfvars: %v", err)
		return
	}
	report.Success("terraform.tfvars linked from host")
}

// link symlinks src to dest, or copies it where symlinks are not
// available.
func (s *Setup) link(src, dest string) error {
	if s.canSymlink {
		return os.Symlink(src, dest)
	}
	return copyFile(src, dest, constants.FilePermissions)
}

// copyFile copies src to dest, creating parent directories and applying
// the given mode.
func copyFile(src, dest string, mode os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), constants.DirPermissions); err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, mode); err != nil {
		return err
	}
	return os.Chmod(dest, mode)
}

// copySSHDir copies the regular files of an SSH directory, restricting
// private keys (id_* without extension) to 0600 and public halves to
// 0644.
func copySSHDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, constants.PrivateDirPermissions); err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		mode := constants.FilePermissions
		switch {
		case strings.HasPrefix(name, "id_") && filepath.Ext(name) == "":
			mode = constants.PrivateFilePermissions
		case filepath.Ext(name) == ".pub":
			mode = constants.FilePermissions
		}
		if err := copyFile(filepath.Join(src, name), filepath.Join(dest, name), mode); err != nil {
			return err
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirHasEntries(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}
