package install

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dojoengine/dojoup/internal/checksum"
	"github.com/dojoengine/dojoup/internal/download"
	"github.com/dojoengine/dojoup/internal/errors"
	"github.com/dojoengine/dojoup/internal/extract"
	"github.com/dojoengine/dojoup/internal/options"
	"github.com/dojoengine/dojoup/internal/platform"
)

// defaultReleaseBaseURL hosts release asset downloads.
const defaultReleaseBaseURL = "https://github.com"

// prebuiltDownload resolves the requested version to a release tag, checks
// that an asset exists for this host before downloading anything, then
// downloads and extracts the binary set into the bin directory.
func (i *Installer) prebuiltDownload(ctx context.Context, opts options.Options) error {
	version, err := i.resolver.Resolve(ctx, opts)
	if err != nil {
		return err
	}

	info, err := platform.Detect()
	if err != nil {
		return err
	}

	assetURL := i.assetURL(opts, version.Tag, info)
	slog.Debug("release asset selected", "url", assetURL)

	exists, err := i.client.AssetExists(ctx, assetURL)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewReleaseNotFound(version.Label, assetURL)
	}

	if err := i.paths.EnsureBinDir(); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	i.printer.Statusf("installing dojo %s (%s %s) ...", version.Label, info.OS, info.Arch)

	tmpDir, err := os.MkdirTemp("", "dojoup-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, filepath.Base(assetURL))
	bar := download.NewProgressBar(os.Stderr, filepath.Base(assetURL))
	_, err = i.downloader.DownloadWithProgress(ctx, assetURL, archivePath, bar.Callback())
	bar.Wait()
	if err != nil {
		return err
	}

	if err := i.verifyChecksum(ctx, assetURL, archivePath); err != nil {
		return err
	}

	if err := i.extractArchive(archivePath, i.paths.BinDir()); err != nil {
		return err
	}

	return i.verifyBinaries(ctx)
}

// assetURL builds the release download URL for a tag on this host.
func (i *Installer) assetURL(opts options.Options, tag string, info platform.Info) string {
	base := i.releaseBaseURL
	if base == "" {
		base = defaultReleaseBaseURL
	}
	return fmt.Sprintf("%s/%s/releases/download/%s/dojo_%s_%s_%s.%s",
		base, opts.Repo, tag, tag, info.OS, info.Arch, info.ArchiveExt)
}

// verifyChecksum checks the archive against its published .sha256 sidecar.
// Releases without a sidecar skip verification; an unreachable or
// unparseable sidecar is skipped too, but a digest that does not match
// the download is fatal.
func (i *Installer) verifyChecksum(ctx context.Context, assetURL, archivePath string) error {
	content, ok, err := i.client.FetchText(ctx, assetURL+".sha256")
	if err != nil || !ok {
		slog.Debug("no checksum sidecar for release asset", "url", assetURL, "error", err)
		return nil
	}

	digest, err := checksum.ParseSidecar(content, filepath.Base(archivePath))
	if err != nil {
		slog.Debug("unparseable checksum sidecar", "url", assetURL, "error", err)
		return nil
	}

	if err := checksum.Verify(archivePath, digest); err != nil {
		return err
	}
	slog.Debug("checksum verified", "file", filepath.Base(archivePath))
	return nil
}

// extractArchive unpacks the downloaded archive into destDir.
func (i *Installer) extractArchive(archivePath, destDir string) error {
	archiveType := extract.Detect(archivePath)
	extractor, err := extract.New(archiveType)
	if err != nil {
		return fmt.Errorf("unrecognized release archive %s: %w", filepath.Base(archivePath), err)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	return extractor.Extract(f, destDir)
}

// verifyBinaries runs each installed binary once to confirm it is invokable,
// and warns when a same-named binary earlier in PATH shadows the install.
func (i *Installer) verifyBinaries(ctx context.Context) error {
	for _, name := range Binaries {
		binPath := i.paths.BinPath(BinaryFileName(name))

		out, err := i.runner.Output(ctx, binPath, "--version")
		if err != nil {
			return fmt.Errorf("installed %s is not runnable: %w", name, err)
		}
		i.printer.Statusf("installed - %s", firstLine(out))

		if other := i.runner.LookPath(name); other != "" && other != binPath {
			i.printer.Warnf("there is a %s binary in %s that may take precedence over the one installed to %s",
				name, filepath.Dir(other), i.paths.BinDir())
		}
	}
	return nil
}

func firstLine(s string) string {
	for idx := 0; idx < len(s); idx++ {
		if s[idx] == '\n' {
			return s[:idx]
		}
	}
	return s
}
