package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgrounder-be/internal/entity"
	"docgrounder-be/pkg/apperr"
	"docgrounder-be/pkg/document"
	"docgrounder-be/pkg/queue"
	"docgrounder-be/pkg/session"
)

type ingestionFixture struct {
	svc          IIngestionService
	factory      *fakeRepositoryFactory
	sessionStore session.Store
	docStore     *document.Store
	embedder     *fakeEmbedder
}

func newIngestionFixture(t *testing.T) *ingestionFixture {
	t.Helper()

	docStore, err := document.NewStore(t.TempDir())
	require.NoError(t, err)

	factory := newFakeRepositoryFactory()
	sessionStore := session.NewMemoryStore(time.Minute)
	embedder := &fakeEmbedder{}

	svc := NewIngestionService(
		factory,
		docStore,
		sessionStore,
		&fakeDispatcher{},
		embedder,
		nil, // events optional in tests
		1000, 100, 16,
		newTestLogger(),
	)

	return &ingestionFixture{
		svc:          svc,
		factory:      factory,
		sessionStore: sessionStore,
		docStore:     docStore,
		embedder:     embedder,
	}
}

func (f *ingestionFixture) seedTask(t *testing.T, content []byte, filename string) *queue.IngestionTask {
	t.Helper()
	ctx := context.Background()
	sessionId := uuid.NewString()

	require.NoError(t, f.sessionStore.Create(ctx, sessionId))
	require.NoError(t, f.sessionStore.SetStatus(ctx, sessionId, session.StatusQueued))

	stored, err := f.docStore.Save(sessionId, filename, content)
	require.NoError(t, err)

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
	require.NoError(t, f.factory.uow.docs.Create(ctx, doc))

	return &queue.IngestionTask{
		TaskId:      uuid.New(),
		SessionId:   sessionId,
		DocumentId:  doc.Id,
		ContentHash: stored.ContentHash,
		StoredPath:  stored.Path,
		Filename:    stored.Filename,
		EnqueuedAt:  time.Now(),
	}
}

func TestIngestion_HappyPathFlipsSessionReady(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	task := f.seedTask(t, []byte(strings.Repeat("go is a compiled language. ", 100)), "notes.txt")

	require.NoError(t, f.svc.ProcessTask(ctx, task))

	status, err := f.sessionStore.GetStatus(ctx, task.SessionId)
	require.NoError(t, err)
	assert.Equal(t, session.StatusReady, status)

	doc, err := f.factory.uow.docs.FindOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.StatusReady, doc.Status)

	count, _ := f.factory.uow.chunks.Count(ctx)
	assert.Greater(t, count, int64(1), "long text must produce multiple chunks")

	// Processed uploads are removed from disk.
	_, statErr := os.Stat(task.StoredPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestIngestion_RedeliveryIsIdempotent(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	task := f.seedTask(t, []byte(strings.Repeat("the quick brown fox. ", 200)), "notes.txt")

	require.NoError(t, f.svc.ProcessTask(ctx, task))
	countAfterFirst, _ := f.factory.uow.chunks.Count(ctx)

	// Simulate an at-least-once redelivery of the same task.
	require.NoError(t, f.svc.ProcessTask(ctx, task))
	countAfterSecond, _ := f.factory.uow.chunks.Count(ctx)

	assert.Equal(t, countAfterFirst, countAfterSecond, "redelivery must not duplicate chunks")

	status, err := f.sessionStore.GetStatus(ctx, task.SessionId)
	require.NoError(t, err)
	assert.Equal(t, session.StatusReady, status)
}

func TestIngestion_CorruptInputFailsPermanently(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	// Invalid UTF-8 bytes: extraction must reject them.
	task := f.seedTask(t, []byte{0xff, 0xfe, 0xfd, 0x00, 0x01}, "broken.txt")

	// nil return acknowledges the task: corrupt input is not retriable.
	require.NoError(t, f.svc.ProcessTask(ctx, task))

	status, err := f.sessionStore.GetStatus(ctx, task.SessionId)
	require.NoError(t, err)
	assert.Equal(t, session.StatusFailed, status)

	doc, err := f.factory.uow.docs.FindOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.StatusFailed, doc.Status)
	assert.NotEmpty(t, doc.FailureReason)

	count, _ := f.factory.uow.chunks.Count(ctx)
	assert.Zero(t, count)
}

func TestIngestion_EmbeddingExhaustionFailsTask(t *testing.T) {
	f := newIngestionFixture(t)
	// The retry wrapper reports exhaustion with this kind.
	f.embedder.err = apperr.New(apperr.KindEmbeddingUnavailable, "provider offline")
	ctx := context.Background()

	task := f.seedTask(t, []byte("some perfectly fine text"), "fine.txt")

	// Terminal failure: the task is acknowledged, not redelivered.
	require.NoError(t, f.svc.ProcessTask(ctx, task))

	status, err := f.sessionStore.GetStatus(ctx, task.SessionId)
	require.NoError(t, err)
	assert.Equal(t, session.StatusFailed, status)

	doc, ferr := f.factory.uow.docs.FindOne(ctx)
	require.NoError(t, ferr)
	assert.Equal(t, session.StatusFailed, doc.Status)
	assert.Contains(t, doc.FailureReason, "EMBEDDING_UNAVAILABLE")
}

func TestIngestion_TransientInfraErrorRequestsRedelivery(t *testing.T) {
	f := newIngestionFixture(t)
	// Unclassified error: not a provider exhaustion, so the task is Nak'd.
	f.embedder.err = assert.AnError
	ctx := context.Background()

	task := f.seedTask(t, []byte("some perfectly fine text"), "fine.txt")

	err := f.svc.ProcessTask(ctx, task)
	require.Error(t, err, "unclassified failure must bubble up for a Nak")

	// Document stays non-terminal so the redelivered task can finish the job.
	doc, ferr := f.factory.uow.docs.FindOne(ctx)
	require.NoError(t, ferr)
	assert.Equal(t, session.StatusProcessing, doc.Status)

	// The upload must still be on disk for the retry.
	_, statErr := os.Stat(task.StoredPath)
	assert.NoError(t, statErr)
}

func TestIngestion_MissingDocumentIsDropped(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	task := &queue.IngestionTask{
		TaskId:     uuid.New(),
		SessionId:  uuid.NewString(),
		DocumentId: uuid.New(),
		StoredPath: filepath.Join(t.TempDir(), "ghost.txt"),
	}

	assert.NoError(t, f.svc.ProcessTask(ctx, task))
}
