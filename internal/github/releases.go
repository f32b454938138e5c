package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dojoengine/dojoup/internal/errors"
)

// DefaultAPIBaseURL is the GitHub REST API endpoint.
const DefaultAPIBaseURL = "https://api.github.com"

// releasesToFetch bounds one release-list page; the newest stable release of
// an active repo is always within the first page.
const releasesToFetch = 30

// maxResponseSize limits API response bodies (10 MiB).
const maxResponseSize = 10 << 20

// Release is the subset of a GitHub Releases API entry dojoup needs.
type Release struct {
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
}

// Client wraps an http.Client with the API base URL, which tests override
// with an httptest server.
type Client struct {
	httpClient *http.Client
	apiBaseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIBaseURL overrides the GitHub API base URL.
func WithAPIBaseURL(url string) Option {
	return func(c *Client) {
		c.apiBaseURL = strings.TrimRight(url, "/")
	}
}

// NewClient creates a Client. A nil httpClient gets the token-aware default.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(TokenFromEnv())
	}
	c := &Client{
		httpClient: httpClient,
		apiBaseURL: DefaultAPIBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListReleases fetches the release list for owner/repo, newest first
// (GitHub returns releases in reverse chronological order).
func (c *Client) ListReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	if owner == "" || repo == "" || strings.Contains(owner, "/") || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("invalid repository %q/%q", owner, repo)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d", c.apiBaseURL, owner, repo, releasesToFetch)
	slog.Debug("fetching release list", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.Error{
			Category: errors.CategoryNetwork,
			Code:     errors.CodeNetworkFailed,
			Message:  fmt.Sprintf("failed to fetch releases for %s/%s", owner, repo),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.Error{
			Category: errors.CategoryNetwork,
			Code:     errors.CodeHTTPError,
			Message:  fmt.Sprintf("GitHub API returned status %d for %s/%s", resp.StatusCode, owner, repo),
			Details:  map[string]any{"url": url, "status_code": resp.StatusCode},
		}
	}

	var releases []Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&releases); err != nil {
		return nil, &errors.Error{
			Category: errors.CategoryRelease,
			Code:     errors.CodeReleaseListFailed,
			Message:  fmt.Sprintf("failed to decode release list for %s/%s", owner, repo),
			Cause:    err,
		}
	}

	slog.Debug("release list fetched", "count", len(releases))
	return releases, nil
}

// maxTextSize limits fetched sidecar files (64 KiB); checksum sidecars are
// a few hundred bytes.
const maxTextSize = 64 << 10

// FetchText fetches a small text resource such as a checksum sidecar.
// A 404 or 403 reports absence (nil content, false) without error.
func (c *Client) FetchText(ctx context.Context, url string) ([]byte, bool, error) {
	slog.Debug("fetching text resource", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, &errors.Error{
			Category: errors.CategoryNetwork,
			Code:     errors.CodeNetworkFailed,
			Message:  fmt.Sprintf("failed to fetch %s", url),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxTextSize))
		if err != nil {
			return nil, false, fmt.Errorf("failed to read response: %w", err)
		}
		return data, true, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		return nil, false, nil
	default:
		return nil, false, &errors.Error{
			Category: errors.CategoryNetwork,
			Code:     errors.CodeHTTPError,
			Message:  fmt.Sprintf("fetch returned status %d", resp.StatusCode),
			Details:  map[string]any{"url": url, "status_code": resp.StatusCode},
		}
	}
}

// AssetExists issues a HEAD-equivalent existence check against a release
// asset URL. It follows redirects (asset downloads redirect to the
// objects.githubusercontent.com CDN) and treats 404/403 as absence.
func (c *Client) AssetExists(ctx context.Context, url string) (bool, error) {
	slog.Debug("checking release asset", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &errors.Error{
			Category: errors.CategoryNetwork,
			Code:     errors.CodeNetworkFailed,
			Message:  fmt.Sprintf("failed to check %s", url),
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		return false, nil
	default:
		return false, &errors.Error{
			Category: errors.CategoryNetwork,
			Code:     errors.CodeHTTPError,
			Message:  fmt.Sprintf("asset check returned status %d", resp.StatusCode),
			Details:  map[string]any{"url": url, "status_code": resp.StatusCode},
		}
	}
}
