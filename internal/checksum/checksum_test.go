package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, content string) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dojo_v1.0.0_linux_amd64.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	sum := sha256.Sum256([]byte(content))
	return path, hex.EncodeToString(sum[:])
}

func TestCalculate(t *testing.T) {
	path, want := writeArchive(t, "archive-bytes")
	got, err := Calculate(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCalculate_MissingFile(t *testing.T) {
	_, err := Calculate(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestParseSidecar(t *testing.T) {
	digest := strings.Repeat("ab", 32)

	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{name: "bare hash", content: digest + "\n", want: digest},
		{name: "gnu line", content: digest + "  dojo_v1.0.0_linux_amd64.tar.gz\n", want: digest},
		{name: "gnu binary marker", content: digest + " *dojo_v1.0.0_linux_amd64.tar.gz\n", want: digest},
		{name: "gnu with path", content: digest + "  dist/dojo_v1.0.0_linux_amd64.tar.gz\n", want: digest},
		{name: "uppercase normalized", content: strings.ToUpper(digest) + "\n", want: digest},
		{
			name: "multi-file picks the right line",
			content: strings.Repeat("cd", 32) + "  other.tar.gz\n" +
				digest + "  dojo_v1.0.0_linux_amd64.tar.gz\n",
			want: digest,
		},
		{name: "wrong filename", content: digest + "  other.tar.gz\n", wantErr: true},
		{name: "not a digest", content: "hello world\n", wantErr: true},
		{name: "empty", content: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSidecar([]byte(tt.content), "dojo_v1.0.0_linux_amd64.tar.gz")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerify(t *testing.T) {
	path, digest := writeArchive(t, "archive-bytes")

	assert.NoError(t, Verify(path, digest))
	assert.NoError(t, Verify(path, strings.ToUpper(digest)))

	err := Verify(path, strings.Repeat("00", 32))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}
