// Package startup sequences the steps that bring a freshly started dev
// container to a usable state: mount setup, virtualenv activation,
// tooling upgrades and project dependency installation.
package startup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charonsec/charon/internal/execx"
	"github.com/charonsec/charon/internal/mounts"
	"github.com/charonsec/charon/internal/report"
)

// Sequence runs the container startup steps in strict order.
type Sequence struct {
	run       execx.Runner
	mounts    *mounts.Setup
	home      string
	workspace string
}

// New creates a startup sequence for the current user.
func New(r execx.Runner, m *mounts.Setup, workspace string) (*Sequence, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Sequence{run: r, mounts: m, home: home, workspace: workspace}, nil
}

// NewWithHome creates a sequence rooted at an explicit home directory.
// Used by tests.
func NewWithHome(r execx.Runner, m *mounts.Setup, home, workspace string) *Sequence {
	return &Sequence{run: r, mounts: m, home: home, workspace: workspace}
}

// Run executes the startup steps, aborting at the first fatal failure.
// Dependency installation tolerates projects without dev extras.
func (s *Sequence) Run(ctx context.Context) error {
	s.mounts.Run(ctx)
	s.activateVenv()

	if err := s.upgradePip(ctx); err != nil {
		return err
	}
	if err := s.installDependencies(ctx); err != nil {
		return err
	}
	return s.installPrecommitHooks(ctx)
}

// activateVenv prepends the project virtualenv to PATH for every later
// step in this process.
func (s *Sequence) activateVenv() {
	venv := filepath.Join(s.home, ".venv")
	if _, err := os.Stat(venv); err != nil {
		report.Error("Virtual environment not found")
		return
	}
	os.Setenv("VIRTUAL_ENV", venv)
	os.Setenv("PATH", filepath.Join(venv, "bin")+string(os.PathListSeparator)+os.Getenv("PATH"))
	report.Success("Virtual environment activated")
}

func (s *Sequence) upgradePip(ctx context.Context) error {
	report.Info("Upgrading pip...")
	if _, err := s.run.Capture(ctx, "python3", "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("failed to upgrade pip: %w", err)
	}
	report.Success("Pip upgraded")
	return nil
}

// installDependencies installs the project in editable mode, first with
// dev extras and then without. Neither failing is fatal: a template
// checkout may not define dependencies at all.
func (s *Sequence) installDependencies(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(s.workspace, "pyproject.toml")); err != nil {
		report.Info("No pyproject.toml found, skipping dependency installation")
		return nil
	}

	report.Info("Installing project dependencies...")
	if _, err := s.run.CaptureIn(ctx, s.workspace, "python3", "-m", "pip", "install", "-e", ".[dev]"); err == nil {
		report.Success("Project dependencies installed")
		return nil
	}
	if _, err := s.run.CaptureIn(ctx, s.workspace, "python3", "-m", "pip", "install", "-e", "."); err == nil {
		report.Success("Project dependencies installed (no dev extras)")
		return nil
	}

	report.Info("No dev dependencies defined or installation failed")
	return nil
}

func (s *Sequence) installPrecommitHooks(ctx context.Context) error {
	report.Info("Installing pre-commit hooks...")
	if _, err := s.run.CaptureIn(ctx, s.workspace, "pre-commit", "install", "--install-hooks"); err != nil {
		return fmt.Errorf("failed to install pre-commit hooks: %w", err)
	}
	report.Success("Pre-commit hooks installed")
	return nil
}
