package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello world", 1000, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)

	first := SplitText(text, 1000, 100)
	second := SplitText(text, 1000, 100)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i], "chunk %d differs between runs", i)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 50) // 500 chars

	chunks := SplitText(text, 100, 20)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-20:]
		assert.True(t, strings.HasPrefix(chunks[i], tail),
			"chunk %d should start with the last 20 chars of chunk %d", i, i-1)
	}
}

func TestSplitTextPreservesOrder(t *testing.T) {
	text := strings.Repeat("0123456789", 30)

	chunks := SplitText(text, 50, 0)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("x", 300)

	// Overlap >= chunk size must not loop forever; falls back to plain stepping.
	chunks := SplitText(text, 100, 100)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
	}
}
