package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgrounder-be/pkg/session"
)

func TestBuild_SystemMessageCarriesContextAndDeclineInstruction(t *testing.T) {
	chunks := []RetrievedChunk{
		{Id: "a", Content: "The warranty lasts 24 months.", Similarity: 0.91},
		{Id: "b", Content: "Returns are accepted within 30 days.", Similarity: 0.85},
	}

	messages := Build(chunks, nil, "How long is the warranty?")

	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "ONLY the context")
	assert.Contains(t, messages[0].Content, "don't know")
	assert.Contains(t, messages[0].Content, "The warranty lasts 24 months.")
	assert.Contains(t, messages[0].Content, "Returns are accepted within 30 days.")
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "How long is the warranty?", messages[1].Content)
}

func TestBuild_ChunksAppearInGivenOrder(t *testing.T) {
	chunks := []RetrievedChunk{
		{Id: "first", Content: "alpha content"},
		{Id: "second", Content: "beta content"},
		{Id: "third", Content: "gamma content"},
	}

	messages := Build(chunks, nil, "q")

	system := messages[0].Content
	posAlpha := strings.Index(system, "alpha content")
	posBeta := strings.Index(system, "beta content")
	posGamma := strings.Index(system, "gamma content")
	require.True(t, posAlpha >= 0 && posBeta >= 0 && posGamma >= 0)
	assert.Less(t, posAlpha, posBeta)
	assert.Less(t, posBeta, posGamma)
}

func TestBuild_HistoryBecomesAlternatingTurns(t *testing.T) {
	history := []*session.Turn{
		{Question: "first question", Answer: "first answer"},
		{Question: "second question", Answer: "second answer"},
	}

	messages := Build(nil, history, "third question")

	require.Len(t, messages, 6)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "first question", messages[1].Content)
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Equal(t, "first answer", messages[2].Content)
	assert.Equal(t, "user", messages[3].Role)
	assert.Equal(t, "second question", messages[3].Content)
	assert.Equal(t, "assistant", messages[4].Role)
	assert.Equal(t, "second answer", messages[4].Content)
	assert.Equal(t, "user", messages[5].Role)
	assert.Equal(t, "third question", messages[5].Content)
}

func TestBuild_EmptyRetrievalStillProducesContextSection(t *testing.T) {
	messages := Build(nil, nil, "anything?")

	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Content, "no relevant context found")
}
