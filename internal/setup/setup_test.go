package setup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charonsec/charon/internal/execx"
)

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestCleanRemovesArtifacts(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "pkg", "__pycache__", "mod.cpython-312.pyc"))
	write(t, filepath.Join(dir, "stale.pyc"))
	write(t, filepath.Join(dir, ".coverage"))
	write(t, filepath.Join(dir, "charon.egg-info", "PKG-INFO"))
	write(t, filepath.Join(dir, "node_modules", "left-pad", "index.js"))
	write(t, filepath.Join(dir, "pkg", "keep.py"))
	write(t, filepath.Join(dir, "README.md"))

	require.NoError(t, New(&execx.MockRunner{}, dir).Clean())

	for _, gone := range []string{
		filepath.Join(dir, "pkg", "__pycache__"),
		filepath.Join(dir, "stale.pyc"),
		filepath.Join(dir, ".coverage"),
		filepath.Join(dir, "charon.egg-info"),
		filepath.Join(dir, "node_modules"),
	} {
		_, err := os.Stat(gone)
		assert.True(t, os.IsNotExist(err), "%s should be removed", gone)
	}
	for _, kept := range []string{
		filepath.Join(dir, "pkg", "keep.py"),
		filepath.Join(dir, "README.md"),
	} {
		_, err := os.Stat(kept)
		assert.NoError(t, err, "%s should survive", kept)
	}
}

func TestEnvironmentRunsOnlyPresentSurfaces(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "pyproject.toml"))

	m := &execx.MockRunner{}
	require.NoError(t, New(m, dir).Environment(context.Background()))

	require.Len(t, m.Calls, 1)
	assert.Equal(t, "python3 -m pip install -e .", m.Calls[0].String())
	assert.Equal(t, dir, m.Calls[0].Dir)
}

func TestLintOrder(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "pyproject.toml"))
	write(t, filepath.Join(dir, "package.json"))

	m := &execx.MockRunner{}
	require.NoError(t, New(m, dir).Lint(context.Background()))

	require.Len(t, m.Calls, 3)
	assert.Equal(t, "ruff check .", m.Calls[0].String())
	assert.Equal(t, "ruff format --check .", m.Calls[1].String())
	assert.Equal(t, "npm run lint", m.Calls[2].String())
}

func TestLintPropagatesFailure(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "pyproject.toml"))

	m := &execx.MockRunner{Err: &execx.CommandError{Name: "ruff", Code: 1}}
	require.Error(t, New(m, dir).Lint(context.Background()))
}

func TestTestWithoutFramework(t *testing.T) {
	m := &execx.MockRunner{}
	require.NoError(t, New(m, t.TempDir()).Test(context.Background()))
	assert.Empty(t, m.Calls)
}
