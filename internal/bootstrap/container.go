package bootstrap

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docgrounder-be/internal/config"
	"docgrounder-be/internal/controller"
	"docgrounder-be/internal/pkg/logger"
	"docgrounder-be/internal/repository/unitofwork"
	"docgrounder-be/internal/service"
	"docgrounder-be/pkg/document"
	"docgrounder-be/pkg/embedding"
	"docgrounder-be/pkg/events"
	"docgrounder-be/pkg/llm"
	"docgrounder-be/pkg/llm/factory"
	"docgrounder-be/pkg/queue"
	"docgrounder-be/pkg/session"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Background Services (Exposed for the worker binary to run)
	IngestionService service.IIngestionService

	// Infrastructure handles the binaries need for shutdown
	Dispatcher queue.Dispatcher
	Emitter    *events.Emitter
	Logger     logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	docStore, err := document.NewStore(cfg.App.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize upload store: %v", err)
	}

	// 2. Session Store
	// Redis keeps status and history shared between the REST and worker
	// binaries; the in-memory store only suits single-binary dev mode.
	var sessionStore session.Store
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionStore = session.NewRedisStore(rdb, cfg.App.SessionTTL)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionStore = session.NewMemoryStore(cfg.App.SessionTTL)
		log.Printf("[INFO] Using Session Store: MEMORY (dev mode, not shared across processes)")
	}

	// 3. Task Queue
	var dispatcher queue.Dispatcher
	if cfg.App.NatsURL != "" {
		dispatcher, err = queue.NewJetStreamDispatcher(cfg.App.NatsURL, cfg.Ingestion.TaskTopic)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to NATS JetStream: %v", err)
		}
		log.Printf("[INFO] Using Task Queue: NATS JETSTREAM")
	} else {
		dispatcher = queue.NewGoChannelDispatcher(cfg.Ingestion.TaskTopic)
		log.Printf("[INFO] Using Task Queue: GOCHANNEL (dev mode, not durable)")
	}

	// 4. AI Providers
	var embedProvider embedding.Provider
	switch cfg.Ai.EmbeddingProvider {
	case "openai":
		embedProvider = embedding.NewOpenAIProvider(
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.OpenAIAPIKey,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.RequestTimeout,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	default:
		embedProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.RequestTimeout,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}
	embedProvider = embedding.NewRetryingProvider(
		embedProvider, cfg.Ai.MaxRetries, cfg.Ai.RetryBaseDelay, cfg.Ai.RequestTimeout,
	)

	baseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "openai" {
		baseURL = cfg.Ai.OpenAIBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		baseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	llmProvider = llm.NewRetryingProvider(
		llmProvider, cfg.Ai.MaxRetries, cfg.Ai.RetryBaseDelay, cfg.Ai.RequestTimeout,
	)

	// 5. Event Bus
	emitter := events.NewEmitter(sysLogger)
	if err := emitter.StartLogSink(context.Background()); err != nil {
		log.Printf("[WARN] Failed to start event log sink: %v", err)
	}

	// 6. Services
	documentService := service.NewDocumentService(
		uowFactory,
		docStore,
		sessionStore,
		dispatcher,
		sysLogger,
	)
	ingestionService := service.NewIngestionService(
		uowFactory,
		docStore,
		sessionStore,
		dispatcher,
		embedProvider,
		emitter,
		cfg.Ingestion.ChunkSize,
		cfg.Ingestion.ChunkOverlap,
		cfg.Ingestion.EmbedBatchSize,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		sessionStore,
		docStore,
		embedProvider,
		llmProvider,
		emitter,
		service.ChatConfig{
			TopK:                cfg.Retrieval.TopK,
			SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
			HistoryWindow:       cfg.Retrieval.HistoryWindow,
			Temperature:         cfg.Ai.Temperature,
			MaxTokens:           cfg.Ai.MaxTokens,
		},
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		ChatController:     controller.NewChatController(chatService),

		IngestionService: ingestionService,

		Dispatcher: dispatcher,
		Emitter:    emitter,
		Logger:     sysLogger,
	}
}
