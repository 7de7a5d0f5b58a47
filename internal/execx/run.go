package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Result is the completion record of one external invocation.
type Result struct {
	Code   int
	Stdout string
	Stderr string
}

// CommandError identifies a failed external invocation.
type CommandError struct {
	Name   string
	Args   []string
	Code   int
	Stderr string
}

func (e *CommandError) Error() string {
	cmd := strings.Join(append([]string{e.Name}, e.Args...), " ")
	if out := strings.TrimSpace(e.Stderr); out != "" {
		return fmt.Sprintf("command failed: %s (exit %d): %s", cmd, e.Code, out)
	}
	return fmt.Sprintf("command failed: %s (exit %d)", cmd, e.Code)
}

// Runner executes external processes. It is abstracted behind an
// interface so lifecycle operations can be tested without shelling out.
type Runner interface {
	// Run streams the child's output to the parent's stdio and blocks
	// until it exits. The parent's stdin is attached so interactive and
	// long-running commands work.
	Run(ctx context.Context, name string, args ...string) error

	// RunInput is Run with the given string fed to the child's stdin.
	RunInput(ctx context.Context, stdin string, name string, args ...string) error

	// Capture runs the child silently and returns its completion
	// record. On a non-zero exit the Result is still populated and the
	// error is a *CommandError.
	Capture(ctx context.Context, name string, args ...string) (Result, error)

	// CaptureIn is Capture with the child's working directory set.
	CaptureIn(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// ShellRunner implements Runner using os/exec.
type ShellRunner struct{}

func (ShellRunner) Run(ctx context.Context, name string, args ...string) error {
	log.Debug().Str("cmd", name+" "+strings.Join(args, " ")).Msg("exec")
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return wrapRunError(name, args, cmd.Run(), "")
}

func (ShellRunner) RunInput(ctx context.Context, stdin, name string, args ...string) error {
	log.Debug().Str("cmd", name+" "+strings.Join(args, " ")).Msg("exec")
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return wrapRunError(name, args, cmd.Run(), "")
}

func (r ShellRunner) Capture(ctx context.Context, name string, args ...string) (Result, error) {
	return r.CaptureIn(ctx, "", name, args...)
}

func (ShellRunner) CaptureIn(ctx context.Context, dir, name string, args ...string) (Result, error) {
	log.Debug().Str("cmd", name+" "+strings.Join(args, " ")).Str("dir", dir).Msg("exec")
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.Code = ee.ExitCode()
		} else {
			res.Code = -1
		}
	}
	return res, wrapRunError(name, args, err, res.Stderr)
}

// wrapRunError converts exec errors into a *CommandError identifying
// the invocation. Start failures (binary not found) keep their original
// error wrapped for errors.Is checks.
func wrapRunError(name string, args []string, err error, stderr string) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &CommandError{Name: name, Args: args, Code: ee.ExitCode(), Stderr: stderr}
	}
	return fmt.Errorf("%s: %w", name, err)
}
