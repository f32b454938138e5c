package install

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dojoengine/dojoup/internal/options"
	"github.com/dojoengine/dojoup/internal/path"
)

// cargoHint is shown when cargo is missing from PATH.
const cargoHint = "install the Rust toolchain from https://rustup.rs and retry"

// localBuild builds a local checkout in release mode and links each binary
// from its target directory into the bin directory. Linking instead of
// copying keeps the installed binaries in step with rebuilds of the checkout.
func (i *Installer) localBuild(ctx context.Context, opts options.Options) error {
	if err := i.requireCommand("cargo", cargoHint); err != nil {
		return err
	}

	checkout, err := path.Expand(opts.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to expand path %s: %w", opts.LocalPath, err)
	}
	if _, err := os.Stat(checkout); err != nil {
		return fmt.Errorf("local checkout not found at %s: %w", checkout, err)
	}

	i.printer.Statusf("building from local checkout %s ...", checkout)
	if err := i.runner.Run(ctx, checkout, "cargo", "build", "--release"); err != nil {
		return err
	}

	if err := i.paths.EnsureBinDir(); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	for _, name := range Binaries {
		target := filepath.Join(checkout, "target", "release", BinaryFileName(name))
		link := i.paths.BinPath(BinaryFileName(name))

		// Remove first: re-running must leave exactly one entry per binary.
		if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", link, err)
		}
		if err := os.Symlink(target, link); err != nil {
			return fmt.Errorf("failed to link %s: %w", name, err)
		}

		slog.Debug("linked binary", "name", name, "target", target)
		i.printer.Statusf("linked %s -> %s", name, target)
	}

	return nil
}
