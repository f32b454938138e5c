// Package install selects and executes the installation strategy for a
// validated option set: build a local checkout, download a prebuilt release,
// or build a remote ref from source.
package install

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dojoengine/dojoup/internal/command"
	"github.com/dojoengine/dojoup/internal/download"
	"github.com/dojoengine/dojoup/internal/env"
	"github.com/dojoengine/dojoup/internal/errors"
	"github.com/dojoengine/dojoup/internal/github"
	"github.com/dojoengine/dojoup/internal/options"
	"github.com/dojoengine/dojoup/internal/path"
	"github.com/dojoengine/dojoup/internal/release"
)

// Strategy tags the installation path chosen for an option set.
type Strategy int

const (
	// StrategyLocalBuild builds a local checkout and links its binaries.
	StrategyLocalBuild Strategy = iota
	// StrategyPrebuiltDownload downloads a published release archive.
	StrategyPrebuiltDownload
	// StrategySourceBuild clones or syncs the repository and builds from source.
	StrategySourceBuild
)

// String returns the strategy name for logging.
func (s Strategy) String() string {
	switch s {
	case StrategyLocalBuild:
		return "local-build"
	case StrategyPrebuiltDownload:
		return "prebuilt-download"
	case StrategySourceBuild:
		return "source-build"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Select chooses the single strategy for an option set, in priority order:
// a local path always wins; the canonical repo with no branch/PR/commit
// override takes prebuilt releases; everything else builds from source.
func Select(opts options.Options) Strategy {
	switch {
	case opts.LocalPath != "":
		return StrategyLocalBuild
	case opts.Repo == options.DefaultRepo && opts.Branch == "" && opts.PR == "" && opts.Commit == "":
		return StrategyPrebuiltDownload
	default:
		return StrategySourceBuild
	}
}

// CompanionInstaller ensures the companion tool version required by the
// installed toolchain is active. Implemented by scarb.Installer.
type CompanionInstaller interface {
	EnsureMatching(ctx context.Context, probePath string) error
}

// Installer executes the selected strategy against the install target.
type Installer struct {
	paths      *path.Paths
	runner     command.Runner
	client     *github.Client
	downloader download.Downloader
	resolver   *release.Resolver
	printer    *errors.Formatter
	companion  CompanionInstaller

	// releaseBaseURL overrides the release download host (for testing).
	releaseBaseURL string
}

// Config wires an Installer's collaborators. Nil fields get defaults.
type Config struct {
	Paths      *path.Paths
	Runner     command.Runner
	HTTPClient *http.Client
	Client     *github.Client
	Downloader download.Downloader
	Resolver   *release.Resolver
	Printer    *errors.Formatter
	Companion  CompanionInstaller

	ReleaseBaseURL string
}

// New creates an Installer.
func New(cfg Config) *Installer {
	if cfg.Runner == nil {
		cfg.Runner = command.NewRunner()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = github.NewHTTPClient(github.TokenFromEnv())
	}
	if cfg.Client == nil {
		cfg.Client = github.NewClient(cfg.HTTPClient)
	}
	if cfg.Downloader == nil {
		cfg.Downloader = download.New(cfg.HTTPClient)
	}
	if cfg.Resolver == nil {
		cfg.Resolver = release.NewResolver(cfg.Client)
	}
	if cfg.Printer == nil {
		cfg.Printer = errors.NewFormatter(os.Stderr, false)
	}

	return &Installer{
		paths:          cfg.Paths,
		runner:         cfg.Runner,
		client:         cfg.Client,
		downloader:     cfg.Downloader,
		resolver:       cfg.Resolver,
		printer:        cfg.Printer,
		companion:      cfg.Companion,
		releaseBaseURL: cfg.ReleaseBaseURL,
	}
}

// Install validates nothing itself; the caller runs Options.Validate first.
// It executes the selected strategy and, after a successful prebuilt
// install, runs the companion-tool step best-effort: a companion failure is
// reported as a warning and never fails the primary install.
func (i *Installer) Install(ctx context.Context, opts options.Options) error {
	if ignored := opts.RemoteIgnored(); len(ignored) > 0 {
		i.printer.Warnf("%s ignored when installing from a local path", strings.Join(ignored, ", "))
	}

	strategy := Select(opts)

	var err error
	switch strategy {
	case StrategyLocalBuild:
		err = i.localBuild(ctx, opts)
	case StrategyPrebuiltDownload:
		err = i.prebuiltDownload(ctx, opts)
	case StrategySourceBuild:
		err = i.sourceBuild(ctx, opts)
	default:
		err = fmt.Errorf("unhandled install strategy %s", strategy)
	}
	if err != nil {
		return err
	}

	if strategy == StrategyPrebuiltDownload && i.companion != nil {
		probe := i.paths.BinPath(BinaryFileName(VersionProbe))
		if cerr := i.companion.EnsureMatching(ctx, probe); cerr != nil {
			i.printer.Warnf("scarb setup failed (dojo itself installed fine): %v", cerr)
		}
	}

	if !env.OnPath(i.paths.BinDir()) {
		i.printer.Warnf("%s is not on PATH", i.paths.BinDir())
		i.printer.Statusf("add it to %s with: %s",
			env.NewFormatter(env.DetectShell()).ProfileFile(), env.PathHint(i.paths.BinDir()))
	}

	i.printer.Statusf("done!")
	return nil
}

// requireCommand fails fast when an external command the selected path
// depends on is absent.
func (i *Installer) requireCommand(name, hint string) error {
	if i.runner.LookPath(name) == "" {
		return errors.NewMissingDependency(name, hint)
	}
	return nil
}
