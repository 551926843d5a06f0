package mapper

import (
	"docgrounder-be/internal/entity"
	"docgrounder-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:            d.Id,
		SessionId:     d.SessionId,
		Filename:      d.Filename,
		StoredPath:    d.StoredPath,
		ByteSize:      d.ByteSize,
		ContentHash:   d.ContentHash,
		Status:        d.Status,
		FailureReason: d.FailureReason,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:            d.Id,
		SessionId:     d.SessionId,
		Filename:      d.Filename,
		StoredPath:    d.StoredPath,
		ByteSize:      d.ByteSize,
		ContentHash:   d.ContentHash,
		Status:        d.Status,
		FailureReason: d.FailureReason,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToEntities(documents []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
