package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"docgrounder-be/internal/entity"
	"docgrounder-be/internal/pkg/logger"
	"docgrounder-be/internal/repository/contract"
	"docgrounder-be/internal/repository/specification"
	"docgrounder-be/internal/repository/unitofwork"
	"docgrounder-be/pkg/llm"
	"docgrounder-be/pkg/queue"
)

// --- Logger fake ---

type nopLogger struct{}

func newTestLogger() logger.ILogger { return nopLogger{} }

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// --- Repository fakes ---

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*entity.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[uuid.UUID]*entity.Document)}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *document
	r.docs[document.Id] = &cp
	return nil
}

func (r *fakeDocumentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, failureReason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		d.Status = status
		d.FailureReason = failureReason
	}
	return nil
}

func (r *fakeDocumentRepo) matches(d *entity.Document, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if d.Id != s.ID {
				return false
			}
		case specification.BySessionID:
			if d.SessionId != s.SessionID {
				return false
			}
		case specification.ByContentHash:
			if d.ContentHash != s.Hash {
				return false
			}
		case specification.ByStatus:
			if d.Status != s.Status {
				return false
			}
		}
	}
	return true
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if r.matches(d, specs) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.docs {
		if r.matches(d, specs) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	docs, _ := r.FindAll(ctx, specs...)
	return int64(len(docs)), nil
}

func (r *fakeDocumentRepo) DeleteBySessionId(ctx context.Context, sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.docs {
		if d.SessionId == sessionId {
			delete(r.docs, id)
		}
	}
	return nil
}

type chunkKey struct {
	sessionId string
	hash      string
	index     int
}

type fakeChunkRepo struct {
	mu      sync.Mutex
	records map[chunkKey]*entity.ChunkEmbedding
	scored  []*contract.ScoredChunkEmbedding
}

func newFakeChunkRepo() *fakeChunkRepo {
	return &fakeChunkRepo{records: make(map[chunkKey]*entity.ChunkEmbedding)}
}

func (r *fakeChunkRepo) UpsertBulk(ctx context.Context, embeddings []*entity.ChunkEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range embeddings {
		key := chunkKey{e.SessionId, e.ContentHash, e.ChunkIndex}
		if _, exists := r.records[key]; exists {
			continue // conflict target: leave the existing row untouched
		}
		cp := *e
		r.records[key] = &cp
	}
	return nil
}

func (r *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChunkEmbedding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChunkEmbedding
	for _, e := range r.records {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *fakeChunkRepo) DeleteBySessionId(ctx context.Context, sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.records {
		if key.sessionId == sessionId {
			delete(r.records, key)
		}
	}
	return nil
}

func (r *fakeChunkRepo) SearchSimilar(ctx context.Context, sessionId string, embedding []float32, limit int, threshold float64) ([]*contract.ScoredChunkEmbedding, error) {
	if limit < len(r.scored) {
		return r.scored[:limit], nil
	}
	return r.scored, nil
}

// --- Unit of work fakes ---

type fakeUnitOfWork struct {
	docs   *fakeDocumentRepo
	chunks *fakeChunkRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }
func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository {
	return u.docs
}
func (u *fakeUnitOfWork) ChunkEmbeddingRepository() contract.ChunkEmbeddingRepository {
	return u.chunks
}

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func newFakeRepositoryFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{
		uow: &fakeUnitOfWork{
			docs:   newFakeDocumentRepo(),
			chunks: newFakeChunkRepo(),
		},
	}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// --- Queue fake ---

type fakeDispatcher struct {
	mu         sync.Mutex
	enqueued   []*queue.IngestionTask
	enqueueErr error
}

func (d *fakeDispatcher) Enqueue(ctx context.Context, task *queue.IngestionTask) error {
	if d.enqueueErr != nil {
		return d.enqueueErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enqueued = append(d.enqueued, task)
	return nil
}

func (d *fakeDispatcher) Consume(ctx context.Context, handler queue.TaskHandler) error {
	return nil
}

func (d *fakeDispatcher) Close() {}

// --- AI provider fakes ---

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
	dim   int
}

func (e *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	dim := e.dim
	if dim == 0 {
		dim = 4
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, dim)
		vec[0] = 1
		out[i] = vec
	}
	return out, nil
}

func (e *fakeEmbedder) Model() string { return "fake-embed" }

type fakeLLM struct {
	mu      sync.Mutex
	answers []string
	calls   int
	err     error
}

func (l *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", l.err
	}
	answer := "answer"
	if l.calls < len(l.answers) {
		answer = l.answers[l.calls]
	}
	l.calls++
	return answer, nil
}

func (l *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return l.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}
