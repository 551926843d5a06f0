package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      string          `gorm:"type:varchar(128);not null;index;uniqueIndex:idx_chunk_identity,priority:1"`
	DocumentId     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContentHash    string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_chunk_identity,priority:2"`
	ChunkIndex     int             `gorm:"not null;default:0;uniqueIndex:idx_chunk_identity,priority:3"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text emits 768 dimensions
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}
