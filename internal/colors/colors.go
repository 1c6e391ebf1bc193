// Package colors provides terminal color support for grove output.
//
// This package provides:
// - ANSI color codes for terminal output
// - Role-based coloring for transcript display
// - Automatic color detection and fallback for non-color terminals
package colors

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorGray    = "\033[90m"
)

// colorEnabled determines if color output should be used
var colorEnabled = shouldUseColor()

// shouldUseColor determines if the terminal supports colors
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if runtime.GOOS == "windows" {
		term := strings.ToLower(os.Getenv("TERM"))
		wt := os.Getenv("WT_SESSION")
		vscode := os.Getenv("VSCODE_PID")
		return wt != "" || vscode != "" || strings.Contains(term, "color") || strings.Contains(term, "xterm")
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if term == "dumb" || term == "" {
		return false
	}

	if fileInfo, err := os.Stdout.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// colorize wraps text in a color code when colors are enabled.
func colorize(color, text string) string {
	if !colorEnabled {
		return text
	}
	return color + text + ColorReset
}

// System colors a system role label.
func System(text string) string { return colorize(ColorMagenta, text) }

// User colors a user role label.
func User(text string) string { return colorize(ColorCyan, text) }

// Assistant colors an assistant role label.
func Assistant(text string) string { return colorize(ColorGreen, text) }

// CurrentBranch highlights the current branch in listings.
func CurrentBranch(text string) string { return colorize(ColorGreen+ColorBold, text) }

// Dim renders secondary detail text.
func Dim(text string) string { return colorize(ColorDim, text) }

// Warning renders a warning message.
func Warning(text string) string { return colorize(ColorYellow, text) }

// Errorf renders a formatted error message.
func Errorf(format string, args ...any) string {
	return colorize(ColorRed, fmt.Sprintf(format, args...))
}
