// Package setup implements the generic project-setup operations:
// environment creation, artifact cleanup, lint and test dispatch. Each
// operation keys off marker files so the same tool works across the
// template's Python and Node surfaces.
package setup

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charonsec/charon/internal/execx"
	"github.com/charonsec/charon/internal/report"
)

// Artifact names removed by Clean.
var (
	artifactDirs  = []string{"__pycache__", ".pytest_cache", "node_modules", "dist", "build"}
	artifactFiles = []string{".coverage"}
	artifactExts  = []string{".pyc", ".pyo"}
)

// Tool runs setup operations rooted at a project directory.
type Tool struct {
	run execx.Runner
	dir string
}

// New creates a Tool rooted at dir.
func New(r execx.Runner, dir string) *Tool {
	return &Tool{run: r, dir: dir}
}

// Environment creates the development environment from whichever
// manifests the project carries.
func (t *Tool) Environment(ctx context.Context) error {
	report.Step("Setting up development environment...")

	if t.hasFile("environment.yml") {
		if _, err := t.run.CaptureIn(ctx, t.dir, "conda", "env", "create", "-f", "environment.yml"); err != nil {
			return err
		}
		report.Success("Conda environment created")
	} else {
		report.Info("No environment.yml found, skipping conda setup")
	}

	if t.hasFile("pyproject.toml") {
		if _, err := t.run.CaptureIn(ctx, t.dir, "python3", "-m", "pip", "install", "-e", "."); err != nil {
			return err
		}
		report.Success("Python dependencies installed")
	}

	if t.hasFile("package.json") {
		if _, err := t.run.CaptureIn(ctx, t.dir, "npm", "install"); err != nil {
			return err
		}
		report.Success("Node.js dependencies installed")
	}

	report.Success("Environment setup complete!")
	return nil
}

// Clean removes build artifacts and caches by walking the project tree.
func (t *Tool) Clean() error {
	report.Step("Cleaning build artifacts...")

	var doomed []string
	err := filepath.WalkDir(t.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		name := d.Name()
		if d.IsDir() {
			if contains(artifactDirs, name) || strings.HasSuffix(name, ".egg-info") {
				doomed = append(doomed, path)
				return fs.SkipDir
			}
			return nil
		}
		if contains(artifactFiles, name) || contains(artifactExts, filepath.Ext(name)) {
			doomed = append(doomed, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range doomed {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}

	report.Success("Cleanup complete")
	return nil
}

// Lint runs the linters for every project surface present.
func (t *Tool) Lint(ctx context.Context) error {
	report.Step("Running linters...")

	if t.hasFile("pyproject.toml") {
		if _, err := t.run.CaptureIn(ctx, t.dir, "ruff", "check", "."); err != nil {
			return err
		}
		if _, err := t.run.CaptureIn(ctx, t.dir, "ruff", "format", "--check", "."); err != nil {
			return err
		}
		report.Success("Python linting complete")
	}

	if t.hasFile("package.json") {
		if _, err := t.run.CaptureIn(ctx, t.dir, "npm", "run", "lint"); err != nil {
			return err
		}
		report.Success("JavaScript linting complete")
	}

	return nil
}

// Test dispatches the project's test suite.
func (t *Tool) Test(ctx context.Context) error {
	report.Step("Running tests...")

	if !t.hasFile("pyproject.toml") {
		report.Info("No test framework configured")
		return nil
	}
	if _, err := t.run.CaptureIn(ctx, t.dir, "python3", "-m", "pytest"); err != nil {
		return err
	}
	report.Success("Tests complete")
	return nil
}

func (t *Tool) hasFile(name string) bool {
	_, err := os.Stat(filepath.Join(t.dir, name))
	return err == nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
