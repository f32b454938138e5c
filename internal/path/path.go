// Package path computes the dojoup filesystem layout: the install root,
// the bin directory binaries land in, and the clone cache for source builds.
package path

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment variables controlling the layout.
const (
	// EnvDojoDir overrides the entire install root.
	EnvDojoDir = "DOJO_DIR"
	// EnvXDGConfigHome selects the base directory the default root lives under.
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
)

// defaultRootName is the install root directory name under the base dir.
const defaultRootName = ".dojo"

// Paths holds the resolved filesystem locations.
type Paths struct {
	root   string
	binDir string
}

// Option is a functional option for configuring Paths.
type Option func(*Paths)

// WithRoot sets a custom install root.
func WithRoot(dir string) Option {
	return func(p *Paths) {
		p.root = dir
	}
}

// New resolves the layout: DOJO_DIR wins, then
// ${XDG_CONFIG_HOME:-$HOME}/.dojo.
func New(opts ...Option) (*Paths, error) {
	p := &Paths{}

	if dir := os.Getenv(EnvDojoDir); dir != "" {
		p.root = dir
	} else {
		base := os.Getenv(EnvXDGConfigHome)
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = home
		}
		p.root = filepath.Join(base, defaultRootName)
	}

	for _, opt := range opts {
		opt(p)
	}

	p.binDir = filepath.Join(p.root, "bin")
	return p, nil
}

// Root returns the install root.
func (p *Paths) Root() string {
	return p.root
}

// BinDir returns the directory installed binaries land in.
func (p *Paths) BinDir() string {
	return p.binDir
}

// BinPath returns the final path of a named binary.
func (p *Paths) BinPath(name string) string {
	return filepath.Join(p.binDir, name)
}

// CloneDir returns the clone cache path for a repository, keyed by
// author and name: <root>/<author>/<repoName>.
func (p *Paths) CloneDir(owner, repo string) string {
	return filepath.Join(p.root, owner, repo)
}

// EnsureBinDir creates the bin directory (and the root) if absent.
func (p *Paths) EnsureBinDir() error {
	return os.MkdirAll(p.binDir, 0755)
}

// Expand expands a leading ~ to the home directory.
func Expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}

	if path == "~" {
		return os.UserHomeDir()
	}

	return path, nil
}
