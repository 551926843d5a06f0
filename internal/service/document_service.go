package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"docgrounder-be/internal/dto"
	"docgrounder-be/internal/entity"
	"docgrounder-be/internal/pkg/logger"
	"docgrounder-be/internal/repository/specification"
	"docgrounder-be/internal/repository/unitofwork"
	"docgrounder-be/pkg/apperr"
	"docgrounder-be/pkg/document"
	"docgrounder-be/pkg/queue"
	"docgrounder-be/pkg/session"
)

type IDocumentService interface {
	// Upload accepts a file, persists it, and enqueues an ingestion task.
	// An empty sessionId starts a fresh session.
	Upload(ctx context.Context, sessionId, filename string, data []byte) (*dto.UploadDocumentResponse, error)
	GetIngestionStatus(ctx context.Context, sessionId string) (*dto.GetIngestionStatusResponse, error)
}

type documentService struct {
	uowFactory   unitofwork.RepositoryFactory
	docStore     *document.Store
	sessionStore session.Store
	dispatcher   queue.Dispatcher
	log          logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	docStore *document.Store,
	sessionStore session.Store,
	dispatcher queue.Dispatcher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:   uowFactory,
		docStore:     docStore,
		sessionStore: sessionStore,
		dispatcher:   dispatcher,
		log:          log,
	}
}

func (s *documentService) Upload(ctx context.Context, sessionId, filename string, data []byte) (*dto.UploadDocumentResponse, error) {
	if !document.IsSupportedFilename(filename) {
		return nil, apperr.New(apperr.KindInvalidFormat, "unsupported file type, expected .pdf, .txt or .md")
	}
	if len(data) == 0 {
		return nil, apperr.New(apperr.KindCorruptInput, "uploaded file is empty")
	}

	if sessionId == "" {
		sessionId = uuid.NewString()
	}
	if err := s.sessionStore.Create(ctx, sessionId); err != nil {
		return nil, err
	}

	stored, err := s.docStore.Save(sessionId, filename, data)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to persist upload", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Same bytes already ingested into this session? Return the existing
	// record instead of re-queueing the work.
	existing, err := uow.DocumentRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByContentHash{Hash: stored.ContentHash},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Info("document", "duplicate upload, reusing existing document", map[string]interface{}{
			"session_id":  sessionId,
			"document_id": existing.Id.String(),
			"status":      existing.Status,
		})
		return &dto.UploadDocumentResponse{
			SessionId:  sessionId,
			DocumentId: existing.Id,
			Filename:   existing.Filename,
			Status:     existing.Status,
			CreatedAt:  existing.CreatedAt,
		}, nil
	}

	doc := &entity.Document{
		Id:          uuid.New(),
		SessionId:   sessionId,
		Filename:    stored.Filename,
		StoredPath:  stored.Path,
		ByteSize:    stored.ByteSize,
		ContentHash: stored.ContentHash,
		Status:      session.StatusQueued,
		CreatedAt:   time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.sessionStore.SetStatus(ctx, sessionId, session.StatusQueued); err != nil {
		return nil, err
	}

	task := &queue.IngestionTask{
		TaskId:      uuid.New(),
		SessionId:   sessionId,
		DocumentId:  doc.Id,
		ContentHash: stored.ContentHash,
		StoredPath:  stored.Path,
		Filename:    stored.Filename,
		EnqueuedAt:  time.Now(),
	}
	if err := s.dispatcher.Enqueue(ctx, task); err != nil {
		// The task was never durably recorded, so the caller must see the
		// failure rather than a session stuck in "queued" forever.
		reason := "task queue unavailable"
		if uerr := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, session.StatusFailed, reason); uerr != nil {
			s.log.Error("document", "failed to mark document failed after enqueue error", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       uerr.Error(),
			})
		}
		if serr := s.sessionStore.SetStatus(ctx, sessionId, session.StatusFailed); serr != nil {
			s.log.Error("document", "failed to mark session failed after enqueue error", map[string]interface{}{
				"session_id": sessionId,
				"error":      serr.Error(),
			})
		}
		return nil, err
	}

	s.log.Info("document", "upload accepted", map[string]interface{}{
		"session_id":  sessionId,
		"document_id": doc.Id.String(),
		"filename":    stored.Filename,
		"byte_size":   stored.ByteSize,
	})

	return &dto.UploadDocumentResponse{
		SessionId:  sessionId,
		DocumentId: doc.Id,
		TaskId:     &task.TaskId,
		Filename:   stored.Filename,
		Status:     doc.Status,
		CreatedAt:  doc.CreatedAt,
	}, nil
}

func (s *documentService) GetIngestionStatus(ctx context.Context, sessionId string) (*dto.GetIngestionStatusResponse, error) {
	status, err := s.sessionStore.GetStatus(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DocumentStatusItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, dto.DocumentStatusItem{
			DocumentId:    d.Id,
			Filename:      d.Filename,
			Status:        d.Status,
			FailureReason: d.FailureReason,
			CreatedAt:     d.CreatedAt,
		})
	}

	return &dto.GetIngestionStatusResponse{
		SessionId: sessionId,
		Status:    status,
		Documents: items,
	}, nil
}
