//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import (
	"fmt"
	"strings"
)

// ConfigError reports conflicting or invalid installation options.
// It is always fatal and raised before any network or git activity.
type ConfigError struct {
	Base Error `json:"error"`

	// Options lists the conflicting option names (when applicable).
	Options []string `json:"options,omitempty"`
}

func (e *ConfigError) Error() string { return e.Base.Error() }
func (e *ConfigError) Unwrap() error { return e.Base.Cause }

// NewConflictingOptions creates a ConfigError for mutually exclusive options.
func NewConflictingOptions(options ...string) *ConfigError {
	return &ConfigError{
		Base: Error{
			Category: CategoryConfig,
			Code:     CodeConflictingOptions,
			Message:  fmt.Sprintf("only one of --%s may be given", strings.Join(options, ", --")),
			Hint:     "pick a single way to select what to install",
		},
		Options: options,
	}
}

// NewInvalidOption creates a ConfigError for a malformed option value.
func NewInvalidOption(option, got, expected string) *ConfigError {
	return &ConfigError{
		Base: Error{
			Category: CategoryConfig,
			Code:     CodeInvalidOption,
			Message:  fmt.Sprintf("invalid value %q for --%s", got, option),
			Hint:     "expected " + expected,
		},
		Options: []string{option},
	}
}

// UnsupportedPlatformError reports a host OS dojoup has no binaries for.
type UnsupportedPlatformError struct {
	Base Error  `json:"error"`
	OS   string `json:"os"`
}

func (e *UnsupportedPlatformError) Error() string { return e.Base.Error() }
func (e *UnsupportedPlatformError) Unwrap() error { return e.Base.Cause }

// NewUnsupportedPlatform creates an UnsupportedPlatformError for the given OS.
func NewUnsupportedPlatform(os string) *UnsupportedPlatformError {
	return &UnsupportedPlatformError{
		Base: Error{
			Category: CategoryPlatform,
			Code:     CodeUnsupportedPlatform,
			Message:  fmt.Sprintf("unsupported platform: %s", os),
			Hint:     "dojoup ships binaries for linux, darwin and windows only",
		},
		OS: os,
	}
}

// NoReleaseFoundError reports that the release feed contained no usable
// stable release. The caller must abort, not fall back.
type NoReleaseFoundError struct {
	Base Error  `json:"error"`
	Repo string `json:"repo"`
}

func (e *NoReleaseFoundError) Error() string { return e.Base.Error() }
func (e *NoReleaseFoundError) Unwrap() error { return e.Base.Cause }

// NewNoReleaseFound creates a NoReleaseFoundError for the given repository.
func NewNoReleaseFound(repo string) *NoReleaseFoundError {
	return &NoReleaseFoundError{
		Base: Error{
			Category: CategoryRelease,
			Code:     CodeNoReleaseFound,
			Message:  fmt.Sprintf("no stable release found for %s", repo),
			Hint:     "pass an explicit version with -v, e.g. dojoup -v 1.0.0",
		},
		Repo: repo,
	}
}

// ReleaseNotFoundError reports that a release asset does not exist at the
// expected URL, detected before any download is attempted.
type ReleaseNotFoundError struct {
	Base    Error  `json:"error"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

func (e *ReleaseNotFoundError) Error() string { return e.Base.Error() }
func (e *ReleaseNotFoundError) Unwrap() error { return e.Base.Cause }

// NewReleaseNotFound creates a ReleaseNotFoundError for the given version and URL.
func NewReleaseNotFound(version, url string) *ReleaseNotFoundError {
	return &ReleaseNotFoundError{
		Base: Error{
			Category: CategoryRelease,
			Code:     CodeReleaseNotFound,
			Message:  fmt.Sprintf("version %s does not match any published release", version),
			Hint:     "check https://github.com/dojoengine/dojo/releases for available versions,\nor install a custom build with -b, -P or -c",
		},
		Version: version,
		URL:     url,
	}
}

// MissingDependencyError reports that an external command required by the
// selected install path is not on PATH. Checked up front, before any work.
type MissingDependencyError struct {
	Base    Error  `json:"error"`
	Command string `json:"command"`
}

func (e *MissingDependencyError) Error() string { return e.Base.Error() }
func (e *MissingDependencyError) Unwrap() error { return e.Base.Cause }

// NewMissingDependency creates a MissingDependencyError for the given command.
func NewMissingDependency(command, hint string) *MissingDependencyError {
	return &MissingDependencyError{
		Base: Error{
			Category: CategoryDependency,
			Code:     CodeMissingDependency,
			Message:  fmt.Sprintf("required command not found: %s", command),
			Hint:     hint,
		},
		Command: command,
	}
}

// ExternalCommandError reports a subprocess that exited non-zero.
// Command always carries the exact argv for diagnosability.
type ExternalCommandError struct {
	Base    Error  `json:"error"`
	Command string `json:"command"`
	Output  string `json:"output,omitempty"`
}

func (e *ExternalCommandError) Error() string { return e.Base.Error() }
func (e *ExternalCommandError) Unwrap() error { return e.Base.Cause }

// NewExternalCommand creates an ExternalCommandError for the given command line.
func NewExternalCommand(command, output string, cause error) *ExternalCommandError {
	return &ExternalCommandError{
		Base: Error{
			Category: CategoryCommand,
			Code:     CodeCommandFailed,
			Message:  fmt.Sprintf("command failed: %s", command),
			Cause:    cause,
		},
		Command: command,
		Output:  output,
	}
}

// ParseError reports a pattern-extraction failure on command output.
type ParseError struct {
	Base    Error  `json:"error"`
	Pattern string `json:"pattern"`
	Input   string `json:"input,omitempty"`
}

func (e *ParseError) Error() string { return e.Base.Error() }
func (e *ParseError) Unwrap() error { return e.Base.Cause }

// NewParse creates a ParseError for the given pattern and input.
func NewParse(what, pattern, input string) *ParseError {
	return &ParseError{
		Base: Error{
			Category: CategoryParse,
			Code:     CodeParseFailed,
			Message:  fmt.Sprintf("failed to parse %s", what),
		},
		Pattern: pattern,
		Input:   input,
	}
}
