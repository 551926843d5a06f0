package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"docgrounder-be/internal/entity"
	"docgrounder-be/internal/pkg/logger"
	"docgrounder-be/internal/repository/specification"
	"docgrounder-be/internal/repository/unitofwork"
	"docgrounder-be/pkg/apperr"
	"docgrounder-be/pkg/document"
	"docgrounder-be/pkg/embedding"
	"docgrounder-be/pkg/events"
	"docgrounder-be/pkg/queue"
	"docgrounder-be/pkg/session"
	"docgrounder-be/pkg/utils"
)

type IIngestionService interface {
	// Run consumes ingestion tasks until ctx is done.
	Run(ctx context.Context) error
	// ProcessTask handles one task. A nil return acknowledges it; an error
	// requests redelivery. Must stay idempotent: the queue is at-least-once.
	ProcessTask(ctx context.Context, task *queue.IngestionTask) error
}

type ingestionService struct {
	uowFactory     unitofwork.RepositoryFactory
	docStore       *document.Store
	sessionStore   session.Store
	dispatcher     queue.Dispatcher
	embedder       embedding.Provider
	emitter        *events.Emitter
	chunkSize      int
	chunkOverlap   int
	embedBatchSize int
	log            logger.ILogger
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	docStore *document.Store,
	sessionStore session.Store,
	dispatcher queue.Dispatcher,
	embedder embedding.Provider,
	emitter *events.Emitter,
	chunkSize, chunkOverlap, embedBatchSize int,
	log logger.ILogger,
) IIngestionService {
	if embedBatchSize < 1 {
		embedBatchSize = 16
	}
	return &ingestionService{
		uowFactory:     uowFactory,
		docStore:       docStore,
		sessionStore:   sessionStore,
		dispatcher:     dispatcher,
		embedder:       embedder,
		emitter:        emitter,
		chunkSize:      chunkSize,
		chunkOverlap:   chunkOverlap,
		embedBatchSize: embedBatchSize,
		log:            log,
	}
}

func (s *ingestionService) Run(ctx context.Context) error {
	return s.dispatcher.Consume(ctx, s.ProcessTask)
}

func (s *ingestionService) ProcessTask(ctx context.Context, task *queue.IngestionTask) error {
	started := time.Now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: task.DocumentId})
	if err != nil {
		return err // transient DB error, redeliver
	}
	if doc == nil {
		s.log.Warn("ingestion", "task references missing document, dropping", map[string]interface{}{
			"task_id":     task.TaskId.String(),
			"document_id": task.DocumentId.String(),
		})
		return nil
	}

	// Redelivery after a completed run: the chunks are already indexed.
	if doc.Status == session.StatusReady {
		s.log.Info("ingestion", "document already ready, acknowledging redelivery", map[string]interface{}{
			"document_id": doc.Id.String(),
		})
		return nil
	}

	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, session.StatusProcessing, ""); err != nil {
		return err
	}
	if err := s.sessionStore.SetStatus(ctx, task.SessionId, session.StatusProcessing); err != nil {
		s.log.Warn("ingestion", "failed to flip session to processing", map[string]interface{}{
			"session_id": task.SessionId,
			"error":      err.Error(),
		})
	}

	text, err := document.Extract(task.StoredPath)
	if err != nil {
		kind := apperr.KindOf(err)
		if kind == apperr.KindCorruptInput || kind == apperr.KindInvalidFormat {
			// Permanent failure: redelivery cannot fix bad bytes.
			return s.failTask(ctx, uow, task, doc.Id, err.Error(), started)
		}
		return err
	}

	chunks := utils.SplitText(text, s.chunkSize, s.chunkOverlap)
	s.log.Info("ingestion", "document split into chunks", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chunks":      len(chunks),
	})

	records := make([]*entity.ChunkEmbedding, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.embedBatchSize {
		end := start + s.embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors, err := s.embedder.Embed(ctx, batch)
		if err != nil {
			if apperr.Is(err, apperr.KindEmbeddingUnavailable) {
				// Retries are already exhausted inside the provider wrapper;
				// the task fails terminally and a fresh upload re-enqueues it.
				return s.failTask(ctx, uow, task, doc.Id, err.Error(), started)
			}
			return err
		}

		for i, vec := range vectors {
			idx := start + i
			records = append(records, &entity.ChunkEmbedding{
				Id:             uuid.New(),
				SessionId:      task.SessionId,
				DocumentId:     doc.Id,
				ContentHash:    task.ContentHash,
				ChunkIndex:     idx,
				Document:       batch[i],
				EmbeddingValue: vec,
				Metadata: map[string]interface{}{
					"filename":        task.Filename,
					"embedding_model": s.embedder.Model(),
				},
				CreatedAt: time.Now(),
			})
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChunkEmbeddingRepository().UpsertBulk(ctx, records); err != nil {
		return err
	}
	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, session.StatusReady, ""); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.sessionStore.SetStatus(ctx, task.SessionId, session.StatusReady); err != nil {
		s.log.Error("ingestion", "failed to flip session to ready", map[string]interface{}{
			"session_id": task.SessionId,
			"error":      err.Error(),
		})
		return err
	}

	if err := s.docStore.Remove(task.StoredPath); err != nil {
		s.log.Warn("ingestion", "failed to remove processed upload", map[string]interface{}{
			"path":  task.StoredPath,
			"error": err.Error(),
		})
	}

	s.log.Info("ingestion", "document indexed", map[string]interface{}{
		"session_id":  task.SessionId,
		"document_id": doc.Id.String(),
		"chunks":      len(records),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if s.emitter != nil {
		s.emitter.Emit(events.NewIngestionCompleted(task.SessionId, "ready", len(records), time.Since(started)))
	}
	return nil
}

// failTask records a permanent ingestion failure and acknowledges the task.
func (s *ingestionService) failTask(ctx context.Context, uow unitofwork.UnitOfWork, task *queue.IngestionTask, docId uuid.UUID, reason string, started time.Time) error {
	if err := uow.DocumentRepository().UpdateStatus(ctx, docId, session.StatusFailed, reason); err != nil {
		return err
	}
	if err := s.sessionStore.SetStatus(ctx, task.SessionId, session.StatusFailed); err != nil {
		s.log.Error("ingestion", "failed to flip session to failed", map[string]interface{}{
			"session_id": task.SessionId,
			"error":      err.Error(),
		})
	}
	if err := s.docStore.Remove(task.StoredPath); err != nil {
		s.log.Warn("ingestion", "failed to remove rejected upload", map[string]interface{}{
			"path":  task.StoredPath,
			"error": err.Error(),
		})
	}

	s.log.Warn("ingestion", "document rejected", map[string]interface{}{
		"session_id":  task.SessionId,
		"document_id": docId.String(),
		"reason":      reason,
	})
	if s.emitter != nil {
		s.emitter.Emit(events.NewIngestionCompleted(task.SessionId, "failed", 0, time.Since(started)))
	}
	return nil
}
