package prompt

import (
	"fmt"
	"strings"

	"docgrounder-be/pkg/llm"
	"docgrounder-be/pkg/session"
)

// systemInstruction pins the model to the retrieved context. The decline
// clause matters: without it models fill gaps with plausible inventions.
const systemInstruction = `You are a helpful assistant that answers questions about uploaded documents.

Answer the question using ONLY the context provided below. If the context does not contain enough information to answer the question, say that you don't know based on the provided document. Do not use outside knowledge and do not make up information.`

// RetrievedChunk is one retrieval hit, ordered by descending similarity.
type RetrievedChunk struct {
	Id         string
	Content    string
	Similarity float64
}

// Build assembles the chat messages for a grounded answer: the system
// instruction with the retrieved context, the last turns of conversation
// history in chronological order, then the current question.
func Build(chunks []RetrievedChunk, history []*session.Turn, question string) []llm.Message {
	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString("\n\nContext:\n")
	if len(chunks) == 0 {
		sb.WriteString("(no relevant context found)\n")
	}
	for i, c := range chunks {
		sb.WriteString(fmt.Sprintf("[%d] %s\n\n", i+1, strings.TrimSpace(c.Content)))
	}

	messages := make([]llm.Message, 0, len(history)*2+2)
	messages = append(messages, llm.Message{Role: "system", Content: sb.String()})

	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: "user", Content: turn.Question},
			llm.Message{Role: "assistant", Content: turn.Answer},
		)
	}

	messages = append(messages, llm.Message{Role: "user", Content: question})
	return messages
}
