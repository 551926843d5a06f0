package contract

import (
	"context"

	"docgrounder-be/internal/entity"
	"docgrounder-be/internal/repository/specification"
)

// ScoredChunkEmbedding wraps ChunkEmbedding with its similarity score
type ScoredChunkEmbedding struct {
	Embedding  *entity.ChunkEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ChunkEmbeddingRepository interface {
	// UpsertBulk writes embedding records keyed by (session_id, content_hash,
	// chunk_index). Rows that already exist are left untouched, so re-processing
	// the same document content is a no-op.
	UpsertBulk(ctx context.Context, embeddings []*entity.ChunkEmbedding) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChunkEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteBySessionId(ctx context.Context, sessionId string) error
	// SearchSimilar returns the k nearest records by cosine similarity, best
	// first, restricted to the given session's namespace.
	SearchSimilar(ctx context.Context, sessionId string, embedding []float32, limit int, threshold float64) ([]*ScoredChunkEmbedding, error)
}
