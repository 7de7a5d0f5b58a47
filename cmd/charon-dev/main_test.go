package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charonsec/charon/internal/execx"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// swapRunner installs a mock in place of the package runner for the
// duration of the test.
func swapRunner(t *testing.T, m *execx.MockRunner) {
	t.Helper()
	prev := runner
	runner = m
	t.Cleanup(func() { runner = prev })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// Even on a machine with no kubectl and no project marker, help and
// unrecognized commands must work: neither preflight check may run.
func TestHelpNeedsNoPreflight(t *testing.T) {
	mock := &execx.MockRunner{Err: errors.New("kubectl: command not found")}
	swapRunner(t, mock)

	out, err := execute(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands")
	assert.Empty(t, mock.Calls)
}

func TestUnknownCommandNeedsNoPreflight(t *testing.T) {
	mock := &execx.MockRunner{Err: errors.New("kubectl: command not found")}
	swapRunner(t, mock)

	_, err := execute(t, "frobnicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
	assert.Empty(t, mock.Calls)
}

func TestVersionNeedsNoPreflight(t *testing.T) {
	mock := &execx.MockRunner{Err: errors.New("kubectl: command not found")}
	swapRunner(t, mock)

	_, err := execute(t, "version")
	require.NoError(t, err)
	assert.Empty(t, mock.Calls)
}
