package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgrounder-be/pkg/apperr"
)

func TestIsSupportedFilename(t *testing.T) {
	assert.True(t, IsSupportedFilename("doc.pdf"))
	assert.True(t, IsSupportedFilename("DOC.PDF"))
	assert.True(t, IsSupportedFilename("notes.txt"))
	assert.True(t, IsSupportedFilename("readme.md"))
	assert.False(t, IsSupportedFilename("image.png"))
	assert.False(t, IsSupportedFilename("archive.zip"))
	assert.False(t, IsSupportedFilename("noextension"))
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExtract_PlainText(t *testing.T) {
	path := writeTemp(t, "notes.txt", []byte("  hello world\nsecond line  "))

	text, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\nsecond line", text)
}

func TestExtract_MarkdownIsTreatedAsPlainText(t *testing.T) {
	path := writeTemp(t, "readme.md", []byte("# Title\n\nbody"))

	text, err := Extract(path)
	require.NoError(t, err)
	assert.Contains(t, text, "# Title")
}

func TestExtract_EmptyFileIsCorrupt(t *testing.T) {
	path := writeTemp(t, "empty.txt", []byte("   \n\t  "))

	_, err := Extract(path)
	assert.True(t, apperr.Is(err, apperr.KindCorruptInput))
}

func TestExtract_InvalidUTF8IsCorrupt(t *testing.T) {
	path := writeTemp(t, "binary.txt", []byte{0xff, 0xfe, 0x00, 0x01})

	_, err := Extract(path)
	assert.True(t, apperr.Is(err, apperr.KindCorruptInput))
}

func TestExtract_GarbagePDFIsCorrupt(t *testing.T) {
	path := writeTemp(t, "fake.pdf", []byte("this is not a pdf"))

	_, err := Extract(path)
	assert.True(t, apperr.Is(err, apperr.KindCorruptInput))
}

func TestExtract_UnsupportedExtensionIsInvalidFormat(t *testing.T) {
	path := writeTemp(t, "data.csv", []byte("a,b,c"))

	_, err := Extract(path)
	assert.True(t, apperr.Is(err, apperr.KindInvalidFormat))
}
