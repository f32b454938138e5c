// Package git manages the local clone cache for source builds. Clones are
// keyed by repository owner and name and force-synchronized to the requested
// ref, discarding any local modifications.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository identifies a remote repository.
type Repository struct {
	// Owner is the repository owner (e.g. "dojoengine").
	Owner string
	// Name is the repository name (e.g. "dojo").
	Name string
	// Host is the git host (default "github.com").
	Host string
}

// NewRepository creates a Repository with the default host.
func NewRepository(owner, name string) *Repository {
	return &Repository{
		Owner: owner,
		Name:  name,
		Host:  "github.com",
	}
}

// URL returns the HTTPS clone URL.
func (r *Repository) URL() string {
	host := r.Host
	if host == "" {
		host = "github.com"
	}
	return fmt.Sprintf("https://%s/%s/%s.git", host, r.Owner, r.Name)
}

// EnsureClone opens the clone at destPath, cloning it first when absent.
func (r *Repository) EnsureClone(ctx context.Context, destPath string) (*git.Repository, error) {
	if repo, err := git.PlainOpen(destPath); err == nil {
		slog.Debug("using existing clone", "path", destPath)
		return repo, nil
	}

	slog.Debug("cloning repository", "url", r.URL(), "dest", destPath)

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create clone parent directory: %w", err)
	}

	repo, err := git.PlainCloneContext(ctx, destPath, false, &git.CloneOptions{
		URL: r.URL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", r.URL(), err)
	}

	slog.Debug("clone completed", "path", destPath)
	return repo, nil
}

// SyncToRef fetches remoteRef into a local tracking ref named trackingName
// and checks it out, discarding local modifications. remoteRef is a full ref
// path such as "refs/heads/main" or "refs/pull/1071/head".
func SyncToRef(ctx context.Context, repo *git.Repository, remoteRef, trackingName string) error {
	tracking := plumbing.NewRemoteReferenceName("origin", trackingName)
	refspec := config.RefSpec(fmt.Sprintf("+%s:%s", remoteRef, tracking))

	slog.Debug("fetching ref", "refspec", refspec)

	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{refspec},
		Force:      true,
		Tags:       git.NoTags,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch %s: %w", remoteRef, err)
	}

	ref, err := repo.Reference(tracking, true)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", tracking, err)
	}

	return checkoutHash(repo, ref.Hash())
}

// CheckoutCommit checks out an exact commit, resolving abbreviated hashes.
func CheckoutCommit(repo *git.Repository, commit string) error {
	slog.Debug("checking out commit", "commit", commit)

	hash, err := repo.ResolveRevision(plumbing.Revision(commit))
	if err != nil {
		return fmt.Errorf("failed to resolve commit %s: %w", commit, err)
	}

	return checkoutHash(repo, *hash)
}

// checkoutHash force-checkouts a commit, discarding local changes.
func checkoutHash(repo *git.Repository, hash plumbing.Hash) error {
	w, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := w.Checkout(&git.CheckoutOptions{
		Hash:  hash,
		Force: true,
	}); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", hash, err)
	}

	slog.Debug("checkout completed", "hash", hash.String())
	return nil
}

// Exists reports whether a git repository exists at path.
func Exists(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}
