package queue

import (
	"time"

	"github.com/google/uuid"
)

// IngestionTask is the durable unit of work handed from the upload path to
// the worker. Processing must be idempotent: the task may be redelivered if
// a worker dies before acknowledging it.
type IngestionTask struct {
	TaskId      uuid.UUID `json:"task_id"`
	SessionId   string    `json:"session_id"`
	DocumentId  uuid.UUID `json:"document_id"`
	ContentHash string    `json:"content_hash"`
	StoredPath  string    `json:"stored_path"`
	Filename    string    `json:"filename"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}
