package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dojoengine/dojoup/internal/command"
	"github.com/dojoengine/dojoup/internal/config"
	"github.com/dojoengine/dojoup/internal/errors"
	"github.com/dojoengine/dojoup/internal/install"
	"github.com/dojoengine/dojoup/internal/options"
	"github.com/dojoengine/dojoup/internal/path"
	"github.com/dojoengine/dojoup/internal/scarb"
)

// rootConfig holds the flags of the root command.
type rootConfig struct {
	repo      string
	branch    string
	tag       string
	version   string
	localPath string
	pr        string
	commit    string
	logLevel  string
	noColor   bool
}

var rootCfg rootConfig

var rootCmd = &cobra.Command{
	Use:   "dojoup",
	Short: "Dojo toolchain installer",
	Long: `Dojoup installs the Dojo toolchain (katana, sozo, torii and the
language server) from published releases or from source.

  dojoup                     Install the latest stable release
  dojoup -v 1.0.0            Install a specific version
  dojoup -b main             Build the main branch from source
  dojoup -P 1071             Build a pull request from source
  dojoup -p ~/src/dojo       Build and link a local checkout`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVarP(&rootCfg.repo, "repo", "r", "", "Source repository (owner/name)")
	rootCmd.Flags().StringVarP(&rootCfg.branch, "branch", "b", "", "Branch to build from source")
	rootCmd.Flags().StringVarP(&rootCfg.tag, "tag", "t", "", "Exact release tag to install")
	rootCmd.Flags().StringVarP(&rootCfg.version, "version", "v", "", "Release version to install (default: stable)")
	rootCmd.Flags().StringVarP(&rootCfg.localPath, "path", "p", "", "Local checkout to build and link")
	rootCmd.Flags().StringVarP(&rootCfg.pr, "pr", "P", "", "Pull request number to build from source")
	rootCmd.Flags().StringVarP(&rootCfg.commit, "commit", "c", "", "Exact commit to build from source")

	rootCmd.PersistentFlags().StringVar(&rootCfg.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&rootCfg.noColor, "no-color", false, "Disable colored output")

	// Unknown flags still show usage even though run errors silence it.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.Println(cmd.UsageString())
		return err
	})

	rootCmd.AddCommand(versionCmd)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	setupLogger(rootCfg.logLevel)

	noColor := rootCfg.noColor || !isatty.IsTerminal(os.Stderr.Fd())
	if noColor {
		color.NoColor = true
	}
	printer := errors.NewFormatter(os.Stderr, noColor)

	opts, err := buildOptions(rootCfg)
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	paths, err := path.New()
	if err != nil {
		return fmt.Errorf("failed to resolve install directories: %w", err)
	}

	runner := command.NewRunner()
	installer := install.New(install.Config{
		Paths:     paths,
		Runner:    runner,
		Printer:   printer,
		Companion: scarb.New(runner, printer),
	})

	return installer.Install(cmd.Context(), opts)
}

// buildOptions merges the optional defaults file under the flags.
// Flags always win; the file can only fill what the user left empty.
func buildOptions(cfg rootConfig) (options.Options, error) {
	defaults, err := config.LoadDefault()
	if err != nil {
		return options.Options{}, err
	}

	repo := cfg.repo
	if repo == "" {
		repo = defaults.Repo
	}
	version := cfg.version
	if version == "" && cfg.tag == "" {
		version = defaults.Version
	}

	return options.New(options.Options{
		Repo:      repo,
		Branch:    cfg.branch,
		Tag:       cfg.tag,
		Version:   version,
		LocalPath: cfg.localPath,
		PR:        cfg.pr,
		Commit:    cfg.commit,
	}), nil
}

// setupLogger configures the global slog handler. Diagnostics go to stderr
// so stdout stays clean.
func setupLogger(level string) {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "info":
		lv = slog.LevelInfo
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelWarn
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lv,
	})))
}
