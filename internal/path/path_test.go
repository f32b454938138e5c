package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("DOJO_DIR overrides everything", func(t *testing.T) {
		t.Setenv(EnvDojoDir, "/opt/dojo")
		t.Setenv(EnvXDGConfigHome, "/xdg")

		p, err := New()
		require.NoError(t, err)
		assert.Equal(t, "/opt/dojo", p.Root())
		assert.Equal(t, filepath.Join("/opt/dojo", "bin"), p.BinDir())
	})

	t.Run("XDG_CONFIG_HOME selects the base dir", func(t *testing.T) {
		t.Setenv(EnvDojoDir, "")
		t.Setenv(EnvXDGConfigHome, "/xdg")

		p, err := New()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/xdg", ".dojo"), p.Root())
	})

	t.Run("falls back to home", func(t *testing.T) {
		t.Setenv(EnvDojoDir, "")
		t.Setenv(EnvXDGConfigHome, "")

		p, err := New()
		require.NoError(t, err)
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".dojo"), p.Root())
	})

	t.Run("WithRoot option wins", func(t *testing.T) {
		t.Setenv(EnvDojoDir, "/opt/dojo")
		p, err := New(WithRoot("/custom"))
		require.NoError(t, err)
		assert.Equal(t, "/custom", p.Root())
		assert.Equal(t, filepath.Join("/custom", "bin"), p.BinDir())
	})
}

func TestPaths_Layout(t *testing.T) {
	p, err := New(WithRoot("/opt/dojo"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/opt/dojo", "bin", "sozo"), p.BinPath("sozo"))
	assert.Equal(t, filepath.Join("/opt/dojo", "dojoengine", "dojo"), p.CloneDir("dojoengine", "dojo"))
}

func TestPaths_EnsureBinDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", ".dojo")
	p, err := New(WithRoot(root))
	require.NoError(t, err)

	require.NoError(t, p.EnsureBinDir())
	assert.DirExists(t, p.BinDir())

	// Idempotent.
	require.NoError(t, p.EnsureBinDir())
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/dojo", filepath.Join(home, "dojo")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got, err := Expand(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
