package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChunkEmbedding is one chunk of document text plus its vector, scoped to a
// session. Identity for idempotent writes is (session, content hash, chunk index).
type ChunkEmbedding struct {
	Id             uuid.UUID
	SessionId      string
	DocumentId     uuid.UUID
	ContentHash    string
	ChunkIndex     int
	Document       string
	EmbeddingValue []float32
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}
