// Package options holds the validated, immutable representation of the
// installation directives given on the command line. It is constructed once
// at startup and passed explicitly to every resolver and strategy; there is
// no ambient option state.
package options

import (
	"strconv"
	"strings"

	"github.com/dojoengine/dojoup/internal/errors"
)

// DefaultRepo is the canonical upstream repository.
const DefaultRepo = "dojoengine/dojo"

// DefaultVersion is the symbolic release channel used when nothing is requested.
const DefaultVersion = "stable"

// Options is the parsed set of installation directives.
// At most one of Branch, Tag, PR and Commit may be set; LocalPath takes
// absolute precedence over the remote selection fields.
type Options struct {
	// Repo is the source repository in "owner/name" form.
	Repo string
	// Branch selects a branch to build from source.
	Branch string
	// Tag selects an exact release tag.
	Tag string
	// Version selects a release version ("stable", "1.0.0", "v1.0.0", ...).
	Version string
	// LocalPath points at a local checkout to build and link.
	LocalPath string
	// PR selects a pull request to build from source (numeric).
	PR string
	// Commit pins the source build to an exact commit.
	Commit string
}

// New returns Options with defaults applied for empty repo and version.
func New(opts Options) Options {
	if opts.Repo == "" {
		opts.Repo = DefaultRepo
	}
	if opts.Version == "" && opts.Tag == "" {
		opts.Version = DefaultVersion
	}
	return opts
}

// Validate enforces the exclusivity invariant: at most one of
// {branch, tag, pr, commit} may be set, and a PR must be numeric.
// It performs no I/O.
func (o Options) Validate() error {
	set := make([]string, 0, 4)
	for _, s := range []struct {
		name  string
		value string
	}{
		{"branch", o.Branch},
		{"tag", o.Tag},
		{"pr", o.PR},
		{"commit", o.Commit},
	} {
		if s.value != "" {
			set = append(set, s.name)
		}
	}
	if len(set) > 1 {
		return errors.NewConflictingOptions(set...)
	}

	if o.PR != "" {
		if _, err := strconv.ParseUint(o.PR, 10, 64); err != nil {
			return errors.NewInvalidOption("pr", o.PR, "a pull request number")
		}
	}

	return nil
}

// RemoteIgnored reports whether remote-selection options would be silently
// ignored because LocalPath takes precedence, and returns their names for
// the warning message.
func (o Options) RemoteIgnored() []string {
	if o.LocalPath == "" {
		return nil
	}
	var ignored []string
	if o.Repo != DefaultRepo {
		ignored = append(ignored, "--repo")
	}
	if o.Branch != "" {
		ignored = append(ignored, "--branch")
	}
	if o.Version != "" && o.Version != DefaultVersion {
		ignored = append(ignored, "--version")
	}
	if o.Tag != "" {
		ignored = append(ignored, "--tag")
	}
	if o.PR != "" {
		ignored = append(ignored, "--pr")
	}
	if o.Commit != "" {
		ignored = append(ignored, "--commit")
	}
	return ignored
}

// RepoOwner returns the owner part of Repo ("dojoengine" for "dojoengine/dojo").
func (o Options) RepoOwner() string {
	owner, _, _ := strings.Cut(o.Repo, "/")
	return owner
}

// RepoName returns the name part of Repo ("dojo" for "dojoengine/dojo").
func (o Options) RepoName() string {
	_, name, ok := strings.Cut(o.Repo, "/")
	if !ok {
		return o.Repo
	}
	return name
}
