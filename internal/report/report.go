// Package report prints user-facing progress lines: a colored glyph
// followed by the message. Structured logging stays on zerolog; these
// lines are the operator-readable surface of the setup tooling.
package report

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	infoMark = color.New(color.FgYellow).Sprint("ℹ")
	stepMark = color.New(color.FgBlue).Sprint("→")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// Success prints a completed-step line.
func Success(format string, args ...any) {
	fmt.Printf("%s %s\n", okMark, fmt.Sprintf(format, args...))
}

// Info prints an informational line.
func Info(format string, args ...any) {
	fmt.Printf("%s %s\n", infoMark, fmt.Sprintf(format, args...))
}

// Step prints a progress line.
func Step(format string, args ...any) {
	fmt.Printf("%s %s\n", stepMark, fmt.Sprintf(format, args...))
}

// Error prints a failure line to stderr.
func Error(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", failMark, fmt.Sprintf(format, args...))
}
