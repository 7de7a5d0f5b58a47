package platform

import "runtime"

// OS represents an operating system the tooling knows about.
type OS string

const (
	Linux   OS = "Linux"
	MacOS   OS = "Mac"
	Windows OS = "Windows"
	Unknown OS = "Unknown"
)

// Detect returns the current operating system.
func Detect() OS {
	switch runtime.GOOS {
	case "linux":
		return Linux
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// IsWindows returns true if running natively on Windows (WSL hosts
// report Linux).
func IsWindows() bool {
	return Detect() == Windows
}
