package install

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojoengine/dojoup/internal/download"
	"github.com/dojoengine/dojoup/internal/errors"
	"github.com/dojoengine/dojoup/internal/github"
	"github.com/dojoengine/dojoup/internal/options"
	"github.com/dojoengine/dojoup/internal/path"
	"github.com/dojoengine/dojoup/internal/release"
)

// fakeRunner records executed commands instead of running them.
type fakeRunner struct {
	runs      []fakeRun
	outputs   map[string]string
	failOn    string
	lookPaths map[string]string
}

type fakeRun struct {
	dir  string
	line string
}

func (r *fakeRunner) record(dir, line string) error {
	r.runs = append(r.runs, fakeRun{dir: dir, line: line})
	if r.failOn != "" && strings.Contains(line, r.failOn) {
		return errors.NewExternalCommand(line, "", fmt.Errorf("exit status 1"))
	}
	return nil
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	return r.record(dir, strings.Join(append([]string{name}, args...), " "))
}

func (r *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	if err := r.record("", line); err != nil {
		return "", err
	}
	if out, ok := r.outputs[line]; ok {
		return out, nil
	}
	return filepath.Base(name) + " 1.0.0", nil
}

func (r *fakeRunner) RunShell(_ context.Context, cmdLine string) error {
	return r.record("", cmdLine)
}

func (r *fakeRunner) LookPath(name string) string {
	return r.lookPaths[name]
}

func (r *fakeRunner) lines() []string {
	out := make([]string, len(r.runs))
	for i, run := range r.runs {
		out[i] = run.line
	}
	return out
}

func withCargo() map[string]string {
	return map[string]string{"cargo": "/usr/bin/cargo"}
}

func newTestPaths(t *testing.T) *path.Paths {
	t.Helper()
	p, err := path.New(path.WithRoot(t.TempDir()))
	require.NoError(t, err)
	return p
}

func quietPrinter() (*errors.Formatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return errors.NewFormatter(&buf, true), &buf
}

func TestInstall_LocalBuild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test requires unix")
	}

	checkout := t.TempDir()
	paths := newTestPaths(t)
	runner := &fakeRunner{lookPaths: withCargo()}
	printer, out := quietPrinter()

	i := New(Config{Paths: paths, Runner: runner, Printer: printer})
	opts := options.New(options.Options{LocalPath: checkout})
	require.NoError(t, i.Install(context.Background(), opts))

	assert.Contains(t, runner.lines(), "cargo build --release")
	for _, name := range Binaries {
		link := paths.BinPath(name)
		target, err := os.Readlink(link)
		require.NoError(t, err, name)
		assert.Equal(t, filepath.Join(checkout, "target", "release", name), target)
	}
	assert.Contains(t, out.String(), "done!")

	t.Run("rerun replaces links", func(t *testing.T) {
		require.NoError(t, i.Install(context.Background(), opts))
		entries, err := os.ReadDir(paths.BinDir())
		require.NoError(t, err)
		assert.Len(t, entries, len(Binaries))
	})

	t.Run("warns about ignored remote options", func(t *testing.T) {
		out.Reset()
		withBranch := options.New(options.Options{LocalPath: checkout, Branch: "main"})
		require.NoError(t, i.Install(context.Background(), withBranch))
		assert.Contains(t, out.String(), "--branch")
		assert.Contains(t, out.String(), "ignored")
	})
}

func TestInstall_LocalBuild_MissingCargo(t *testing.T) {
	printer, _ := quietPrinter()
	i := New(Config{Paths: newTestPaths(t), Runner: &fakeRunner{}, Printer: printer})

	err := i.Install(context.Background(), options.New(options.Options{LocalPath: t.TempDir()}))
	var depErr *errors.MissingDependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "cargo", depErr.Command)
}

func TestInstall_LocalBuild_BuildFailure(t *testing.T) {
	printer, _ := quietPrinter()
	runner := &fakeRunner{lookPaths: withCargo(), failOn: "cargo build"}
	i := New(Config{Paths: newTestPaths(t), Runner: runner, Printer: printer})

	err := i.Install(context.Background(), options.New(options.Options{LocalPath: t.TempDir()}))
	var cmdErr *errors.ExternalCommandError
	require.ErrorAs(t, err, &cmdErr)
}

// releaseArchive builds a tar.gz holding one executable file per binary.
func releaseArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, name := range Binaries {
		content := name + "-binary"
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0755,
			Size: int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

type fakeCompanion struct {
	probes []string
	err    error
}

func (c *fakeCompanion) EnsureMatching(_ context.Context, probePath string) error {
	c.probes = append(c.probes, probePath)
	return c.err
}

func newPrebuiltInstaller(t *testing.T, paths *path.Paths, runner *fakeRunner, companion CompanionInstaller) (*Installer, *bytes.Buffer) {
	return newPrebuiltInstallerWithDigest(t, paths, runner, companion, "")
}

// newPrebuiltInstallerWithDigest serves a release fixture; a non-empty
// digest overrides the checksum sidecar content.
func newPrebuiltInstallerWithDigest(t *testing.T, paths *path.Paths, runner *fakeRunner, companion CompanionInstaller, digest string) (*Installer, *bytes.Buffer) {
	t.Helper()
	archive := releaseArchive(t)
	if digest == "" {
		sum := sha256.Sum256(archive)
		digest = hex.EncodeToString(sum[:])
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/dojoengine/dojo/releases", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"tag_name":"v2.0.0-alpha.1","prerelease":true},{"tag_name":"v1.9.0","prerelease":false}]`)
	})
	mux.HandleFunc("/dojoengine/dojo/releases/download/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "v1.9.0") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if strings.HasSuffix(r.URL.Path, ".sha256") {
			fmt.Fprintln(w, digest)
			return
		}
		w.Write(archive)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := github.NewClient(srv.Client(), github.WithAPIBaseURL(srv.URL))
	printer, out := quietPrinter()
	i := New(Config{
		Paths:          paths,
		Runner:         runner,
		Client:         client,
		Downloader:     download.New(srv.Client()),
		Resolver:       release.NewResolver(client),
		Printer:        printer,
		Companion:      companion,
		ReleaseBaseURL: srv.URL,
	})
	return i, out
}

func TestInstall_PrebuiltDownload(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture serves a tar.gz asset")
	}

	paths := newTestPaths(t)
	runner := &fakeRunner{lookPaths: withCargo()}
	companion := &fakeCompanion{}
	i, out := newPrebuiltInstaller(t, paths, runner, companion)

	opts := options.New(options.Options{})
	require.NoError(t, i.Install(context.Background(), opts))

	for _, name := range Binaries {
		data, err := os.ReadFile(paths.BinPath(name))
		require.NoError(t, err, name)
		assert.Equal(t, name+"-binary", string(data))
	}

	// Every binary is probed once for invokability.
	lines := runner.lines()
	for _, name := range Binaries {
		assert.Contains(t, lines, paths.BinPath(name)+" --version")
	}

	require.Len(t, companion.probes, 1)
	assert.Equal(t, paths.BinPath(VersionProbe), companion.probes[0])
	assert.Contains(t, out.String(), "done!")

	t.Run("rerun overwrites in place", func(t *testing.T) {
		require.NoError(t, i.Install(context.Background(), opts))
		entries, err := os.ReadDir(paths.BinDir())
		require.NoError(t, err)
		assert.Len(t, entries, len(Binaries))
	})
}

func TestInstall_PrebuiltDownload_MissingAsset(t *testing.T) {
	paths := newTestPaths(t)
	i, _ := newPrebuiltInstaller(t, paths, &fakeRunner{}, nil)

	err := i.Install(context.Background(), options.New(options.Options{Version: "9.9.9"}))
	var relErr *errors.ReleaseNotFoundError
	require.ErrorAs(t, err, &relErr)
	assert.Equal(t, "v9.9.9", relErr.Version)

	// Nothing downloaded, nothing written.
	assert.NoDirExists(t, paths.BinDir())
}

func TestInstall_PrebuiltDownload_ChecksumMismatch(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture serves a tar.gz asset")
	}

	paths := newTestPaths(t)
	i, _ := newPrebuiltInstallerWithDigest(t, paths, &fakeRunner{}, nil, strings.Repeat("00", 32))

	err := i.Install(context.Background(), options.New(options.Options{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestInstall_PrebuiltDownload_CompanionFailureIsWarning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture serves a tar.gz asset")
	}

	paths := newTestPaths(t)
	companion := &fakeCompanion{err: fmt.Errorf("asdf exploded")}
	i, out := newPrebuiltInstaller(t, paths, &fakeRunner{}, companion)

	require.NoError(t, i.Install(context.Background(), options.New(options.Options{})))
	assert.Contains(t, out.String(), "warning")
	assert.Contains(t, out.String(), "asdf exploded")
}

func TestInstall_PrebuiltDownload_ShadowWarning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture serves a tar.gz asset")
	}

	paths := newTestPaths(t)
	runner := &fakeRunner{lookPaths: map[string]string{"sozo": "/usr/local/bin/sozo"}}
	i, out := newPrebuiltInstaller(t, paths, runner, nil)

	require.NoError(t, i.Install(context.Background(), options.New(options.Options{})))
	assert.Contains(t, out.String(), "take precedence")
	assert.Contains(t, out.String(), "/usr/local/bin")
}

// fixtureUpstream creates a local repository with two commits on main and
// returns its path plus both commit hashes, oldest first.
func fixtureUpstream(t *testing.T) (string, []plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	var hashes []plumbing.Hash
	for i, content := range []string{"one", "two"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(content), 0644))
		_, err = wt.Add("Cargo.toml")
		require.NoError(t, err)
		hash, err := wt.Commit(fmt.Sprintf("commit %d", i+1), &gogit.CommitOptions{
			Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
		})
		require.NoError(t, err)
		hashes = append(hashes, hash)
	}

	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hashes[len(hashes)-1])))
	return dir, hashes
}

func TestInstall_SourceBuild(t *testing.T) {
	upstream, hashes := fixtureUpstream(t)
	paths := newTestPaths(t)

	// Pre-seed the clone cache from the local fixture so no network is needed.
	cloneDir := paths.CloneDir("dojoengine", "dojo")
	_, err := gogit.PlainClone(cloneDir, false, &gogit.CloneOptions{URL: upstream})
	require.NoError(t, err)

	runner := &fakeRunner{lookPaths: withCargo()}
	printer, _ := quietPrinter()
	i := New(Config{Paths: paths, Runner: runner, Printer: printer})

	opts := options.New(options.Options{Branch: "main"})
	require.NoError(t, i.Install(context.Background(), opts))

	for _, name := range Binaries {
		want := fmt.Sprintf("cargo install --path ./bin/%s --profile release --force --locked --root %s",
			name, paths.Root())
		assert.Contains(t, runner.lines(), want)
	}
	for _, run := range runner.runs {
		if strings.HasPrefix(run.line, "cargo install") {
			assert.Equal(t, cloneDir, run.dir)
		}
	}

	t.Run("exact commit is checked out", func(t *testing.T) {
		commitOpts := options.New(options.Options{Commit: hashes[0].String()})
		require.NoError(t, i.Install(context.Background(), commitOpts))

		repo, err := gogit.PlainOpen(cloneDir)
		require.NoError(t, err)
		head, err := repo.Head()
		require.NoError(t, err)
		assert.Equal(t, hashes[0], head.Hash())
	})
}

func TestInstall_SourceBuild_MissingCargo(t *testing.T) {
	printer, _ := quietPrinter()
	i := New(Config{Paths: newTestPaths(t), Runner: &fakeRunner{}, Printer: printer})

	err := i.Install(context.Background(), options.New(options.Options{Branch: "main"}))
	var depErr *errors.MissingDependencyError
	require.ErrorAs(t, err, &depErr)
}
