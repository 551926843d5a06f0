package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     string     `gorm:"type:varchar(128);not null;index;uniqueIndex:idx_documents_session_hash,priority:1"`
	Filename      string     `gorm:"type:varchar(255);not null"`
	StoredPath    string     `gorm:"type:text"`
	ByteSize      int64      `gorm:"not null;default:0"`
	ContentHash   string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_documents_session_hash,priority:2"`
	Status        string     `gorm:"type:varchar(16);not null;default:'queued';index"`
	FailureReason string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
