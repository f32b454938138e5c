package command

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojoengine/dojoup/internal/errors"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func newTestRunner() (*ExecRunner, *bytes.Buffer) {
	var buf bytes.Buffer
	return &ExecRunner{Stdout: &buf, Stderr: &buf}, &buf
}

func TestExecRunner_Run(t *testing.T) {
	skipOnWindows(t)

	t.Run("streams output", func(t *testing.T) {
		r, buf := newTestRunner()
		err := r.Run(context.Background(), "", "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("runs in dir", func(t *testing.T) {
		dir := t.TempDir()
		r, buf := newTestRunner()
		err := r.Run(context.Background(), dir, "pwd")
		require.NoError(t, err)
		assert.Contains(t, buf.String(), dir)
	})

	t.Run("failure carries exact command and output tail", func(t *testing.T) {
		r, _ := newTestRunner()
		err := r.Run(context.Background(), "", "sh", "-c", "echo doomed >&2; exit 3")

		var cmdErr *errors.ExternalCommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, "sh -c echo doomed >&2; exit 3", cmdErr.Command)
		assert.Contains(t, cmdErr.Output, "doomed")
	})
}

func TestExecRunner_Output(t *testing.T) {
	skipOnWindows(t)

	t.Run("captures trimmed stdout", func(t *testing.T) {
		r, _ := newTestRunner()
		out, err := r.Output(context.Background(), "sh", "-c", "echo '  v1.2.3  '")
		require.NoError(t, err)
		assert.Equal(t, "v1.2.3", out)
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		r, _ := newTestRunner()
		_, err := r.Output(context.Background(), "sh", "-c", "echo broken >&2; exit 1")
		var cmdErr *errors.ExternalCommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Contains(t, cmdErr.Output, "broken")
	})
}

func TestExecRunner_RunShell(t *testing.T) {
	skipOnWindows(t)

	r, buf := newTestRunner()
	require.NoError(t, r.RunShell(context.Background(), "echo piped | tr a-z A-Z"))
	assert.Contains(t, buf.String(), "PIPED")

	err := r.RunShell(context.Background(), "false")
	var cmdErr *errors.ExternalCommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "false", cmdErr.Command)
}

func TestExecRunner_LookPath(t *testing.T) {
	skipOnWindows(t)

	r := NewRunner()
	assert.NotEmpty(t, r.LookPath("sh"))
	assert.Empty(t, r.LookPath("definitely-not-a-command-12345"))
}

func TestTailBuffer(t *testing.T) {
	var tb tailBuffer
	big := strings.Repeat("x", outputTailLimit)
	_, err := tb.Write([]byte(big))
	require.NoError(t, err)
	_, err = tb.Write([]byte("end"))
	require.NoError(t, err)

	got := tb.String()
	assert.Len(t, got, outputTailLimit)
	assert.True(t, strings.HasSuffix(got, "end"))
}
