package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is one uploaded file bound to exactly one session. Status follows
// the ingestion lifecycle: queued -> processing -> {ready, failed}.
type Document struct {
	Id            uuid.UUID
	SessionId     string
	Filename      string
	StoredPath    string
	ByteSize      int64
	ContentHash   string
	Status        string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
