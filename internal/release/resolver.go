// Package release resolves a requested version or tag to the concrete
// release tag dojoup installs.
package release

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/dojoengine/dojoup/internal/errors"
	"github.com/dojoengine/dojoup/internal/github"
	"github.com/dojoengine/dojoup/internal/options"
)

// Stable is the symbolic release channel resolved against the release feed.
const Stable = "stable"

// stableTagPattern matches release tags of the form vX.Y.Z or vX.Y.Z-rc.N.
// Anything else in the feed (nightly builds, tool-specific tags) is skipped.
var stableTagPattern = regexp.MustCompile(`^v\d+\.\d+\.\d+(-rc\.\d+)?$`)

// Version is the resolved release identity.
type Version struct {
	// Label is the effective version label ("v1.9.0").
	Label string
	// Tag is the concrete release tag to download ("v1.9.0").
	Tag string
}

// Resolver picks a concrete release tag for a version request.
type Resolver struct {
	client *github.Client
}

// NewResolver creates a Resolver using the given GitHub client.
// A nil client gets the token-aware default.
func NewResolver(client *github.Client) *Resolver {
	if client == nil {
		client = github.NewClient(nil)
	}
	return &Resolver{client: client}
}

// Resolve maps (repo, requestedVersion, requestedTag) to a Version.
//
// An explicit tag wins and is used verbatim. The "stable" channel queries
// the release feed and takes the newest non-prerelease entry with a
// canonical tag. A version starting with a digit gets a "v" prefix with no
// network call. Anything else passes through unchanged.
func (r *Resolver) Resolve(ctx context.Context, opts options.Options) (Version, error) {
	if opts.Tag != "" {
		slog.Debug("using explicit tag", "tag", opts.Tag)
		return Version{Label: opts.Tag, Tag: opts.Tag}, nil
	}

	version := opts.Version
	switch {
	case version == Stable:
		tag, err := r.resolveStable(ctx, opts)
		if err != nil {
			return Version{}, err
		}
		return Version{Label: tag, Tag: tag}, nil

	case version != "" && version[0] >= '0' && version[0] <= '9':
		return Version{Label: "v" + version, Tag: "v" + version}, nil

	default:
		return Version{Label: version, Tag: version}, nil
	}
}

// resolveStable picks the newest stable tag from the release feed.
// The feed is assumed reverse-chronological; the first match wins and no
// re-sorting happens, since the sort key the upstream intends (semver vs.
// publication time) is not knowable here.
func (r *Resolver) resolveStable(ctx context.Context, opts options.Options) (string, error) {
	releases, err := r.client.ListReleases(ctx, opts.RepoOwner(), opts.RepoName())
	if err != nil {
		return "", err
	}

	for _, rel := range releases {
		if rel.Prerelease {
			continue
		}
		if !IsStableTag(rel.TagName) {
			continue
		}
		slog.Debug("stable release resolved", "tag", rel.TagName)
		return rel.TagName, nil
	}

	return "", errors.NewNoReleaseFound(opts.Repo)
}

// IsStableTag reports whether tag has the canonical release form
// vX.Y.Z or vX.Y.Z-rc.N and parses as semver.
func IsStableTag(tag string) bool {
	if !stableTagPattern.MatchString(tag) {
		return false
	}
	_, err := semver.StrictNewVersion(strings.TrimPrefix(tag, "v"))
	return err == nil
}
