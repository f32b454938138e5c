package install

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dojoengine/dojoup/internal/git"
	"github.com/dojoengine/dojoup/internal/options"
)

// defaultBranch is built when no branch, tag or PR is requested.
const defaultBranch = "main"

// sourceBuild clones (or reuses) the repository under the install root,
// force-syncs it to the requested ref and installs each binary with cargo.
func (i *Installer) sourceBuild(ctx context.Context, opts options.Options) error {
	if err := i.requireCommand("cargo", cargoHint); err != nil {
		return err
	}

	selector := opts.Selector()
	if selector.Kind == options.SelectorNone {
		selector = options.RemoteSelector{Kind: options.SelectorBranch, Name: defaultBranch}
	}

	owner, name := opts.RepoOwner(), opts.RepoName()
	cloneDir := i.paths.CloneDir(owner, name)

	i.printer.Statusf("installing %s (%s) from source ...", opts.Repo, selector.TrackingName())

	repo, err := git.NewRepository(owner, name).EnsureClone(ctx, cloneDir)
	if err != nil {
		return err
	}

	if err := git.SyncToRef(ctx, repo, selector.Ref(), selector.TrackingName()); err != nil {
		return err
	}

	if opts.Commit != "" {
		if err := git.CheckoutCommit(repo, opts.Commit); err != nil {
			return err
		}
	}

	if err := i.paths.EnsureBinDir(); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	for _, bin := range Binaries {
		slog.Debug("building binary from source", "name", bin, "dir", cloneDir)
		err := i.runner.Run(ctx, cloneDir, "cargo", "install",
			"--path", "./bin/"+bin,
			"--profile", "release",
			"--force", "--locked",
			"--root", i.paths.Root())
		if err != nil {
			return err
		}
	}

	return nil
}
