// Package github talks to the GitHub release API and release asset hosts.
//
// Requests to GitHub domains carry a Bearer token when GITHUB_TOKEN or
// GH_TOKEN is set, which raises the API rate limit from 60 to 5,000
// requests per hour and lets forks under private ownership resolve.
package github

import (
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	envGitHubToken = "GITHUB_TOKEN"
	envGHToken     = "GH_TOKEN"

	hostGitHub              = "github.com"
	hostGitHubAPI           = "api.github.com"
	suffixGitHub            = ".github.com"
	suffixGitHubusercontent = ".githubusercontent.com"
)

// TokenFromEnv reads GITHUB_TOKEN or GH_TOKEN from the environment.
// GITHUB_TOKEN takes precedence. Returns empty string if neither is set.
func TokenFromEnv() string {
	if t := os.Getenv(envGitHubToken); t != "" {
		return t
	}
	return os.Getenv(envGHToken)
}

// NewHTTPClient creates an http.Client that attaches the token to requests
// for GitHub hosts. An empty token yields a plain client with a timeout.
func NewHTTPClient(token string) *http.Client {
	return &http.Client{
		Timeout: defaultTimeout,
		Transport: &tokenTransport{
			token: token,
			base:  http.DefaultTransport,
		},
	}
}

// tokenTransport adds a Bearer token to GitHub requests.
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" && isGitHubHost(req.URL.Host) {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req)
}

// isGitHubHost matches github.com, api.github.com and the
// *.githubusercontent.com asset delivery domains.
func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	if host == hostGitHub || host == hostGitHubAPI {
		return true
	}
	return strings.HasSuffix(host, suffixGitHub) || strings.HasSuffix(host, suffixGitHubusercontent)
}
