package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"docgrounder-be/internal/dto"
	"docgrounder-be/internal/pkg/logger"
	"docgrounder-be/internal/repository/specification"
	"docgrounder-be/internal/repository/unitofwork"
	"docgrounder-be/pkg/apperr"
	"docgrounder-be/pkg/document"
	"docgrounder-be/pkg/embedding"
	"docgrounder-be/pkg/events"
	"docgrounder-be/pkg/llm"
	"docgrounder-be/pkg/rag/prompt"
	"docgrounder-be/pkg/session"
)

type IChatService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionId string) error
}

type ChatConfig struct {
	TopK                int
	SimilarityThreshold float64
	HistoryWindow       int
	Temperature         float64
	MaxTokens           int
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	sessionStore session.Store
	docStore     *document.Store
	embedder     embedding.Provider
	llmProvider  llm.LLMProvider
	emitter      *events.Emitter
	cfg          ChatConfig
	log          logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionStore session.Store,
	docStore *document.Store,
	embedder embedding.Provider,
	llmProvider llm.LLMProvider,
	emitter *events.Emitter,
	cfg ChatConfig,
	log logger.ILogger,
) IChatService {
	if cfg.TopK < 1 {
		cfg.TopK = 4
	}
	if cfg.HistoryWindow < 0 {
		cfg.HistoryWindow = 0
	}
	return &chatService{
		uowFactory:   uowFactory,
		sessionStore: sessionStore,
		docStore:     docStore,
		embedder:     embedder,
		llmProvider:  llmProvider,
		emitter:      emitter,
		cfg:          cfg,
		log:          log,
	}
}

func (s *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	started := time.Now()

	status, err := s.sessionStore.GetStatus(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// A later upload flips the session status back to queued (and a failed
	// ingestion to failed) while its document is processed, but chunks from
	// documents that already reached ready stay indexed and answerable.
	if status != session.StatusReady {
		readyDocs, cerr := uow.DocumentRepository().Count(ctx,
			specification.BySessionID{SessionID: request.SessionId},
			specification.ByStatus{Status: session.StatusReady},
		)
		if cerr != nil {
			return nil, cerr
		}
		if readyDocs == 0 {
			return nil, apperr.New(apperr.KindSessionNotReady, "session is not ready for questions, ingestion status: "+status)
		}
	}

	vectors, err := s.embedder.Embed(ctx, []string{request.Question})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, apperr.New(apperr.KindEmbeddingUnavailable, "embedding provider returned no vector for the question")
	}

	scored, err := uow.ChunkEmbeddingRepository().SearchSimilar(
		ctx, request.SessionId, vectors[0], s.cfg.TopK, s.cfg.SimilarityThreshold,
	)
	if err != nil {
		return nil, err
	}

	chunks := make([]prompt.RetrievedChunk, 0, len(scored))
	citedIds := make([]string, 0, len(scored))
	for _, sc := range scored {
		chunks = append(chunks, prompt.RetrievedChunk{
			Id:         sc.Embedding.Id.String(),
			Content:    sc.Embedding.Document,
			Similarity: sc.Similarity,
		})
		citedIds = append(citedIds, sc.Embedding.Id.String())
	}

	history, err := s.sessionStore.GetHistory(ctx, request.SessionId, s.cfg.HistoryWindow)
	if err != nil {
		return nil, err
	}

	messages := prompt.Build(chunks, history, request.Question)

	// A failed generation must leave the history untouched: the turn is only
	// appended after a successful answer.
	answer, err := s.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(s.cfg.Temperature),
		llm.WithMaxTokens(s.cfg.MaxTokens),
	)
	if err != nil {
		return nil, err
	}

	turn := &session.Turn{
		Id:            uuid.New(),
		Question:      request.Question,
		Answer:        answer,
		CitedChunkIds: citedIds,
		CreatedAt:     time.Now(),
	}
	if err := s.sessionStore.AppendTurn(ctx, request.SessionId, turn); err != nil {
		return nil, err
	}

	s.log.Info("chat", "question answered", map[string]interface{}{
		"session_id":  request.SessionId,
		"chunks_used": len(chunks),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if s.emitter != nil {
		promptTokens := 0
		for _, m := range messages {
			promptTokens += estimateTokens(m.Content)
		}
		completionTokens := estimateTokens(answer)
		s.emitter.Emit(events.NewQueryCompleted(
			request.SessionId,
			promptTokens,
			completionTokens,
			estimateCostUsd(promptTokens, completionTokens),
			time.Since(started),
		))
	}

	return &dto.SendChatResponse{
		SessionId:     request.SessionId,
		Answer:        answer,
		CitedChunkIds: citedIds,
		CreatedAt:     turn.CreatedAt,
	}, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	// Existence check first so a missing session is a 404, not an empty list.
	if _, err := s.sessionStore.GetStatus(ctx, sessionId); err != nil {
		return nil, err
	}

	turns, err := s.sessionStore.GetHistory(ctx, sessionId, 0)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ChatHistoryTurn, 0, len(turns))
	for _, t := range turns {
		items = append(items, dto.ChatHistoryTurn{
			Id:            t.Id.String(),
			Question:      t.Question,
			Answer:        t.Answer,
			CitedChunkIds: t.CitedChunkIds,
			CreatedAt:     t.CreatedAt,
		})
	}

	return &dto.GetChatHistoryResponse{
		SessionId: sessionId,
		Turns:     items,
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionId string) error {
	if _, err := s.sessionStore.GetStatus(ctx, sessionId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChunkEmbeddingRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.DocumentRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.docStore.RemoveSession(sessionId); err != nil {
		s.log.Warn("chat", "failed to remove session uploads", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	if err := s.sessionStore.Delete(ctx, sessionId); err != nil {
		return err
	}

	s.log.Info("chat", "session deleted", map[string]interface{}{
		"session_id": sessionId,
	})
	return nil
}

// estimateTokens approximates token count as runes/4. Providers that do not
// report usage (Ollama) still get ballpark metrics.
func estimateTokens(text string) int {
	n := len([]rune(text)) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}

// Rates are rough public per-million-token prices for small hosted models;
// local models effectively cost zero but the relative number is still useful.
func estimateCostUsd(promptTokens, completionTokens int) float64 {
	const promptPerM = 0.15
	const completionPerM = 0.60
	return float64(promptTokens)/1e6*promptPerM + float64(completionTokens)/1e6*completionPerM
}
