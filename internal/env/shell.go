// Package env inspects the user's shell environment so dojoup can tell them
// how to put the bin directory on PATH, in their shell's own syntax.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ShellType represents a shell syntax type.
type ShellType string

const (
	// ShellPosix represents POSIX-compatible shells (bash, zsh, sh).
	ShellPosix ShellType = "posix"
	// ShellFish represents the fish shell.
	ShellFish ShellType = "fish"
)

// DetectShell classifies the login shell from $SHELL. Anything unrecognized
// is treated as POSIX.
func DetectShell() ShellType {
	switch filepath.Base(os.Getenv("SHELL")) {
	case "fish":
		return ShellFish
	default:
		return ShellPosix
	}
}

// Formatter renders shell statements in a specific shell's syntax.
type Formatter interface {
	// ExportPath formats a statement prepending dir to PATH.
	ExportPath(dir string) string
	// ProfileFile names the startup file the statement belongs in.
	ProfileFile() string
}

// NewFormatter returns a Formatter for the given ShellType.
func NewFormatter(st ShellType) Formatter {
	switch st {
	case ShellFish:
		return fishFormatter{}
	default:
		return posixFormatter{}
	}
}

var (
	_ Formatter = (*posixFormatter)(nil)
	_ Formatter = (*fishFormatter)(nil)
)

type posixFormatter struct{}

func (posixFormatter) ExportPath(dir string) string {
	return fmt.Sprintf("export PATH=%q", toShellPath(dir)+":$PATH")
}

func (posixFormatter) ProfileFile() string { return "~/.profile" }

type fishFormatter struct{}

func (fishFormatter) ExportPath(dir string) string {
	return fmt.Sprintf("fish_add_path %q", toShellPath(dir))
}

func (fishFormatter) ProfileFile() string { return "~/.config/fish/config.fish" }

// toShellPath converts an absolute path under $HOME to $HOME/... form for
// shell portability. Paths not under $HOME are returned as-is.
func toShellPath(p string) string {
	home, _ := os.UserHomeDir()
	if home != "" && strings.HasPrefix(p, home+string(os.PathSeparator)) {
		return "$HOME/" + filepath.ToSlash(p[len(home)+1:])
	}
	if p == home {
		return "$HOME"
	}
	return p
}
