// Package errors provides structured error types for dojoup.
// These errors carry context that can be formatted for human-readable
// CLI output, including remediation hints.
//
//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// Category represents the classification of an error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryPlatform   Category = "platform"
	CategoryRelease    Category = "release"
	CategoryDependency Category = "dependency"
	CategoryCommand    Category = "command"
	CategoryParse      Category = "parse"
	CategoryNetwork    Category = "network"
	CategoryInstall    Category = "install"
)

// Code is a machine-readable error code.
type Code string

const (
	// Config errors (E1xx)
	CodeConflictingOptions Code = "E101"
	CodeInvalidOption      Code = "E102"

	// Platform errors (E2xx)
	CodeUnsupportedPlatform Code = "E201"

	// Release errors (E3xx)
	CodeNoReleaseFound    Code = "E301"
	CodeReleaseNotFound   Code = "E302"
	CodeReleaseListFailed Code = "E303"

	// Dependency errors (E4xx)
	CodeMissingDependency Code = "E401"

	// Command errors (E5xx)
	CodeCommandFailed Code = "E501"

	// Parse errors (E6xx)
	CodeParseFailed Code = "E601"

	// Network errors (E7xx)
	CodeNetworkFailed Code = "E701"
	CodeHTTPError     Code = "E702"

	// Install errors (E8xx)
	CodeBuildFailed   Code = "E801"
	CodeInstallFailed Code = "E802"
)

// Error is the base error type for dojoup.
type Error struct {
	// Category classifies the error type.
	Category Category `json:"category"`

	// Code is a machine-readable error code.
	Code Code `json:"code,omitempty"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Details contains additional context information.
	Details map[string]any `json:"details,omitempty"`

	// Hint provides actionable advice for the user.
	Hint string `json:"hint,omitempty"`

	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error.
// Two *Error values match by Code when both carry one, otherwise
// by category and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code != "" && t.Code != "" {
		return e.Code == t.Code
	}
	return e.Category == t.Category && e.Message == t.Message
}

// WithHint sets the hint and returns the error for chaining.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithDetail adds a detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given category and message.
func New(category Category, message string) *Error {
	return &Error{
		Category: category,
		Message:  message,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(category Category, message string, cause error) *Error {
	return &Error{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}
