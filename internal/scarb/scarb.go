// Package scarb keeps the scarb toolchain in step with the installed dojo
// version. The whole package is best-effort: callers report its errors as
// warnings and never fail the primary install over them.
package scarb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dojoengine/dojoup/internal/command"
	"github.com/dojoengine/dojoup/internal/errors"
)

// installScriptURL is scarb's upstream installer.
const installScriptURL = "https://docs.swmansion.com/scarb/install.sh"

// requiredVersionPattern extracts the scarb version a dojo build was
// compiled against from `sozo --version` output, which reports a line like
// "scarb: v2.7.0" (older builds omit the colon or the v prefix).
var requiredVersionPattern = regexp.MustCompile(`scarb:?\s+v?(\d+\.\d+\.\d+)`)

// activeVersionPattern extracts the version from `scarb -V` output
// ("scarb 2.7.0 (...)").
var activeVersionPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// ParseRequiredVersion extracts the required scarb version from version
// probe output. Pure function; no match is a ParseError.
func ParseRequiredVersion(output string) (string, error) {
	m := requiredVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return "", errors.NewParse("required scarb version", requiredVersionPattern.String(), output)
	}
	return m[1], nil
}

// Installer installs and activates the scarb version a dojo install needs.
type Installer struct {
	runner  command.Runner
	printer *errors.Formatter
}

// New creates an Installer.
func New(runner command.Runner, printer *errors.Formatter) *Installer {
	return &Installer{runner: runner, printer: printer}
}

// EnsureMatching probes the installed toolchain for its required scarb
// version and makes that version active: a no-op when it already is,
// via asdf when available, else via the upstream install script.
func (i *Installer) EnsureMatching(ctx context.Context, probePath string) error {
	out, err := i.runner.Output(ctx, probePath, "--version")
	if err != nil {
		return err
	}

	required, err := ParseRequiredVersion(out)
	if err != nil {
		return err
	}
	slog.Debug("required scarb version", "version", required)

	if i.activeVersion(ctx) == required {
		i.printer.Statusf("scarb %s already active", required)
		return nil
	}

	if i.runner.LookPath("asdf") != "" {
		return i.installViaAsdf(ctx, required)
	}
	return i.installViaScript(ctx, required)
}

// activeVersion reports the currently active scarb version, or "" when
// scarb is absent or unparseable.
func (i *Installer) activeVersion(ctx context.Context) string {
	if i.runner.LookPath("scarb") == "" {
		return ""
	}
	out, err := i.runner.Output(ctx, "scarb", "-V")
	if err != nil {
		return ""
	}
	m := activeVersionPattern.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	return m[1]
}

// installViaAsdf installs and activates a scarb version through asdf,
// adding the plugin first when missing.
func (i *Installer) installViaAsdf(ctx context.Context, version string) error {
	i.printer.Statusf("installing scarb %s via asdf ...", version)

	plugins, err := i.runner.Output(ctx, "asdf", "plugin", "list")
	if err != nil || !hasPlugin(plugins, "scarb") {
		if err := i.runner.Run(ctx, "", "asdf", "plugin", "add", "scarb"); err != nil {
			return err
		}
	}

	if err := i.runner.Run(ctx, "", "asdf", "install", "scarb", version); err != nil {
		return err
	}

	// asdf 0.16 renamed `global` to `set -u`; try new first, fall back.
	if err := i.runner.Run(ctx, "", "asdf", "set", "-u", "scarb", version); err != nil {
		slog.Debug("asdf set failed, falling back to asdf global", "error", err)
		return i.runner.Run(ctx, "", "asdf", "global", "scarb", version)
	}
	return nil
}

// installViaScript runs scarb's upstream install script pinned to a version.
func (i *Installer) installViaScript(ctx context.Context, version string) error {
	i.printer.Statusf("installing scarb %s ...", version)
	cmdLine := fmt.Sprintf("curl --proto '=https' --tlsv1.2 -sSf %s | sh -s -- -v %s",
		installScriptURL, version)
	return i.runner.RunShell(ctx, cmdLine)
}

// hasPlugin reports whether an asdf plugin listing contains name.
func hasPlugin(listing, name string) bool {
	for _, line := range strings.Split(listing, "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}
