package embedding

import "context"

// Provider generates vector representations for batches of text. The same
// provider (model and version) must be used at ingestion and query time for a
// given session; mixing embedding spaces breaks retrieval.
type Provider interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Model identifies the embedding model so callers can assert
	// ingestion/query consistency.
	Model() string
}
