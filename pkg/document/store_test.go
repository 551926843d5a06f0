package document

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveComputesContentHash(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("some document content")
	stored, err := store.Save("sess-1", "doc.txt", data)
	require.NoError(t, err)

	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), stored.ContentHash)
	assert.Equal(t, int64(len(data)), stored.ByteSize)

	onDisk, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestStore_SameBytesSameHash(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	a, err := store.Save("sess-1", "a.txt", []byte("identical"))
	require.NoError(t, err)
	b, err := store.Save("sess-1", "b.txt", []byte("identical"))
	require.NoError(t, err)

	assert.Equal(t, a.ContentHash, b.ContentHash)
}

func TestStore_RemoveToleratesMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove("/nonexistent/path.txt"))
}

func TestStore_RemoveSessionOnlyTouchesOwnFiles(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	mine, err := store.Save("sess-1", "a.txt", []byte("mine"))
	require.NoError(t, err)
	other, err := store.Save("sess-2", "b.txt", []byte("other"))
	require.NoError(t, err)

	require.NoError(t, store.RemoveSession("sess-1"))

	_, err = os.Stat(mine.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(other.Path)
	assert.NoError(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{"weird\x00name.txt", "weirdname.txt"},
		{"a:b/c.txt", "c.txt"},
		{"..", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}
