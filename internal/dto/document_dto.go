package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentResponse struct {
	SessionId  string     `json:"session_id"`
	DocumentId uuid.UUID  `json:"document_id"`
	TaskId     *uuid.UUID `json:"task_id,omitempty"` // nil when the upload was deduplicated
	Filename   string     `json:"filename"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

type GetIngestionStatusResponse struct {
	SessionId string               `json:"session_id"`
	Status    string               `json:"status"`
	Documents []DocumentStatusItem `json:"documents"`
}

type DocumentStatusItem struct {
	DocumentId    uuid.UUID `json:"document_id"`
	Filename      string    `json:"filename"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
