package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedChain(t *testing.T) {
	base := errors.New("socket closed")
	err := Wrap(KindQueueUnavailable, "enqueue failed", base)

	// Kind survives further wrapping with %w.
	outer := fmt.Errorf("upload: %w", err)

	assert.Equal(t, KindQueueUnavailable, KindOf(outer))
	assert.True(t, Is(outer, KindQueueUnavailable))
	assert.True(t, errors.Is(outer, base))
}

func TestKindOf_UnclassifiedIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(errors.New("plain"), KindSessionNotFound))
}

func TestError_MessageIncludesKindAndCause(t *testing.T) {
	err := Wrap(KindCorruptInput, "bad pdf", errors.New("xref table broken"))
	assert.Contains(t, err.Error(), "CORRUPT_INPUT")
	assert.Contains(t, err.Error(), "bad pdf")
	assert.Contains(t, err.Error(), "xref table broken")

	plain := New(KindSessionNotFound, "missing")
	assert.Contains(t, plain.Error(), "SESSION_NOT_FOUND")
}
