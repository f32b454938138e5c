// Package command runs external commands (cargo, asdf, installed binaries)
// with consistent logging and error reporting. Failures always surface the
// exact command line that failed.
package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/dojoengine/dojoup/internal/errors"
)

// outputTailLimit bounds how much subprocess output an error carries.
const outputTailLimit = 4 << 10

// Runner executes external commands. Strategies depend on this interface so
// tests can substitute a recorder.
type Runner interface {
	// Run executes name with args in dir (empty dir means inherit), streaming
	// output to the user. A non-zero exit is an ExternalCommandError.
	Run(ctx context.Context, dir, name string, args ...string) error

	// Output executes name with args and captures trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// RunShell executes a shell command line (used for installer scripts
	// that are fetched and piped through sh).
	RunShell(ctx context.Context, cmdLine string) error

	// LookPath reports the path of an executable, or "" when absent.
	LookPath(name string) string
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	// Stdout and Stderr receive streamed subprocess output.
	// Defaults to the process's stderr so build output stays visible
	// without polluting stdout.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates an ExecRunner streaming subprocess output to stderr.
func NewRunner() *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stderr,
		Stderr: os.Stderr,
	}
}

// Run executes name with args in dir, streaming output and keeping a tail
// for error reporting.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	line := commandLine(name, args)
	slog.Debug("executing command", "command", line, "dir", dir)

	var tail tailBuffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = io.MultiWriter(r.Stdout, &tail)
	cmd.Stderr = io.MultiWriter(r.Stderr, &tail)

	if err := cmd.Run(); err != nil {
		return errors.NewExternalCommand(line, tail.String(), err)
	}

	slog.Debug("command succeeded", "command", line)
	return nil
}

// Output executes name with args and returns trimmed stdout.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	line := commandLine(name, args)
	slog.Debug("capturing command output", "command", line)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.NewExternalCommand(line, stderr.String(), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// RunShell executes a shell command line via sh -c.
func (r *ExecRunner) RunShell(ctx context.Context, cmdLine string) error {
	slog.Debug("executing shell command", "command", cmdLine)

	var tail tailBuffer
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdLine)
	cmd.Stdout = io.MultiWriter(r.Stdout, &tail)
	cmd.Stderr = io.MultiWriter(r.Stderr, &tail)

	if err := cmd.Run(); err != nil {
		return errors.NewExternalCommand(cmdLine, tail.String(), err)
	}
	return nil
}

// LookPath reports the resolved path of an executable, or "" when absent.
func (r *ExecRunner) LookPath(name string) string {
	p, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return p
}

// commandLine renders an argv for error messages.
func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// tailBuffer keeps the last outputTailLimit bytes written to it.
type tailBuffer struct {
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > outputTailLimit {
		t.buf = t.buf[len(t.buf)-outputTailLimit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
