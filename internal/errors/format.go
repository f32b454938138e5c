//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats errors for CLI output.
type Formatter struct {
	NoColor bool
	Writer  io.Writer

	errorColor *color.Color
	codeColor  *color.Color
	valueColor *color.Color
	hintColor  *color.Color
	dimColor   *color.Color
}

// NewFormatter creates a new Formatter.
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	if noColor {
		color.NoColor = true
	}

	return &Formatter{
		NoColor:    noColor,
		Writer:     w,
		errorColor: color.New(color.FgRed, color.Bold),
		codeColor:  color.New(color.FgRed),
		valueColor: color.New(color.FgCyan),
		hintColor:  color.New(color.FgGreen),
		dimColor:   color.New(color.FgHiBlack),
	}
}

// Format formats an error for CLI display.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	var configErr *ConfigError
	var platformErr *UnsupportedPlatformError
	var noReleaseErr *NoReleaseFoundError
	var releaseErr *ReleaseNotFoundError
	var depErr *MissingDependencyError
	var cmdErr *ExternalCommandError
	var parseErr *ParseError
	var baseErr *Error

	switch {
	case errors.As(err, &configErr):
		f.formatHeader(&sb, configErr.Base.Code, configErr.Base.Message)
		f.formatCause(&sb, &configErr.Base)
		f.formatHint(&sb, &configErr.Base)
	case errors.As(err, &platformErr):
		f.formatHeader(&sb, platformErr.Base.Code, platformErr.Base.Message)
		f.formatHint(&sb, &platformErr.Base)
	case errors.As(err, &noReleaseErr):
		f.formatHeader(&sb, noReleaseErr.Base.Code, noReleaseErr.Base.Message)
		f.formatField(&sb, "Repo", noReleaseErr.Repo)
		f.formatCause(&sb, &noReleaseErr.Base)
		f.formatHint(&sb, &noReleaseErr.Base)
	case errors.As(err, &releaseErr):
		f.formatHeader(&sb, releaseErr.Base.Code, releaseErr.Base.Message)
		f.formatField(&sb, "Version", releaseErr.Version)
		f.formatField(&sb, "URL", releaseErr.URL)
		f.formatHint(&sb, &releaseErr.Base)
	case errors.As(err, &depErr):
		f.formatHeader(&sb, depErr.Base.Code, depErr.Base.Message)
		f.formatHint(&sb, &depErr.Base)
	case errors.As(err, &cmdErr):
		f.formatHeader(&sb, cmdErr.Base.Code, cmdErr.Base.Message)
		f.formatField(&sb, "Command", cmdErr.Command)
		if cmdErr.Output != "" {
			sb.WriteString("\n")
			for line := range strings.SplitSeq(strings.TrimRight(cmdErr.Output, "\n"), "\n") {
				sb.WriteString("    ")
				sb.WriteString(f.dimColor.Sprint(line))
				sb.WriteString("\n")
			}
		}
		f.formatCause(&sb, &cmdErr.Base)
		f.formatHint(&sb, &cmdErr.Base)
	case errors.As(err, &parseErr):
		f.formatHeader(&sb, parseErr.Base.Code, parseErr.Base.Message)
		f.formatField(&sb, "Pattern", parseErr.Pattern)
		f.formatHint(&sb, &parseErr.Base)
	case errors.As(err, &baseErr):
		f.formatHeader(&sb, baseErr.Code, baseErr.Message)
		f.formatCause(&sb, baseErr)
		f.formatHint(&sb, baseErr)
	default:
		sb.WriteString(f.errorColor.Sprint("dojoup: error: "))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatHeader writes "dojoup: error [E101]: message" (code omitted when empty).
func (f *Formatter) formatHeader(sb *strings.Builder, code Code, message string) {
	sb.WriteString(f.errorColor.Sprint("dojoup: error"))
	if code != "" {
		sb.WriteString(" ")
		sb.WriteString(f.codeColor.Sprintf("[%s]", code))
	}
	sb.WriteString(f.errorColor.Sprint(": "))
	sb.WriteString(message)
	sb.WriteString("\n")
}

func (f *Formatter) formatField(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString("  ")
	sb.WriteString(f.dimColor.Sprintf("%-8s ", name+":"))
	sb.WriteString(f.valueColor.Sprint(value))
	sb.WriteString("\n")
}

func (f *Formatter) formatCause(sb *strings.Builder, err *Error) {
	if err.Cause == nil {
		return
	}
	sb.WriteString("  ")
	sb.WriteString(f.dimColor.Sprint("Cause: "))
	sb.WriteString(err.Cause.Error())
	sb.WriteString("\n")
}

func (f *Formatter) formatHint(sb *strings.Builder, err *Error) {
	if err.Hint == "" {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(f.hintColor.Sprint("Hint: "))
	lines := strings.Split(err.Hint, "\n")
	sb.WriteString(lines[0])
	sb.WriteString("\n")
	for _, line := range lines[1:] {
		sb.WriteString("      ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// Warnf writes a prefixed warning line. Warnings never affect the exit code.
func (f *Formatter) Warnf(format string, args ...any) {
	warn := color.New(color.FgYellow, color.Bold)
	fmt.Fprintf(f.Writer, "%s %s\n", warn.Sprint("dojoup: warning:"), fmt.Sprintf(format, args...))
}

// Statusf writes a prefixed status line. Success and progress messages share
// the same prefix and stream as errors for traceability.
func (f *Formatter) Statusf(format string, args ...any) {
	prefix := color.New(color.FgCyan, color.Bold)
	fmt.Fprintf(f.Writer, "%s %s\n", prefix.Sprint("dojoup:"), fmt.Sprintf(format, args...))
}
