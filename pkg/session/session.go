package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ingestion status values visible to the query path. The flip to StatusReady
// is the synchronization point between the worker and the request server.
const (
	StatusNone       = "none" // session exists but nothing was uploaded yet
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

// Turn is one question/answer exchange. History is append-only; ordering is
// the sole source of conversational context.
type Turn struct {
	Id            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	CitedChunkIds []string  `json:"cited_chunk_ids"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store owns session status and conversation history. It is shared between
// the request server and the worker; every operation must be safe under
// concurrent access from both without client-side locking.
//
// Missing sessions surface apperr.KindSessionNotFound, never an empty result.
type Store interface {
	// Create ensures the session exists. Safe to call repeatedly.
	Create(ctx context.Context, sessionId string) error
	GetStatus(ctx context.Context, sessionId string) (string, error)
	SetStatus(ctx context.Context, sessionId string, status string) error
	// AppendTurn atomically appends to the session's history, preserving
	// insertion order under concurrent writers.
	AppendTurn(ctx context.Context, sessionId string, turn *Turn) error
	// GetHistory returns the most recent maxTurns turns in chronological
	// order. maxTurns <= 0 returns the full history.
	GetHistory(ctx context.Context, sessionId string, maxTurns int) ([]*Turn, error)
	Delete(ctx context.Context, sessionId string) error
}
