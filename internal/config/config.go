// Package config loads the optional dojoup defaults file.
//
// The file lives at <config dir>/dojoup/config.yaml, where the config dir is
// XDG_CONFIG_HOME or ~/.config. It can set a default repository and version
// so fork users do not have to repeat flags; command-line flags always win.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/dojoengine/dojoup/internal/errors"
)

// FileName is the defaults file name under the dojoup config directory.
const FileName = "config.yaml"

// Config holds user defaults for installation options.
type Config struct {
	// Repo is the default source repository ("owner/name").
	Repo string `yaml:"repo"`
	// Version is the default release version or channel.
	Version string `yaml:"version"`
}

// DefaultPath returns the defaults file path for this user.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "dojoup", FileName), nil
}

// Load reads the defaults file at path. A missing file yields a zero Config;
// a malformed file is a ConfigError.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &errors.ConfigError{
			Base: errors.Error{
				Category: errors.CategoryConfig,
				Code:     errors.CodeInvalidOption,
				Message:  fmt.Sprintf("failed to parse %s", path),
				Hint:     "the defaults file takes yaml keys: repo, version",
				Cause:    err,
			},
		}
	}

	return cfg, nil
}

// LoadDefault reads the defaults file from its standard location.
func LoadDefault() (Config, error) {
	p, err := DefaultPath()
	if err != nil {
		return Config{}, err
	}
	return Load(p)
}
