package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ingestion IngestionConfig
	Retrieval RetrievalConfig
	Ai        AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
	TracingEnabled     bool
	SessionTTL         time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type IngestionConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	EmbedBatchSize int
	TaskTopic      string
}

type RetrievalConfig struct {
	TopK                int
	SimilarityThreshold float64
	HistoryWindow       int
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "openai"
	EmbeddingModel    string
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string
	OllamaBaseURL     string
	OpenAIBaseURL     string
	OpenAIAPIKey      string
	Temperature       float64
	MaxTokens         int
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RequestTimeout    time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
			TracingEnabled:     getEnvAsBool("TRACING_ENABLED", false),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ingestion: IngestionConfig{
			ChunkSize:      getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 100),
			EmbedBatchSize: getEnvAsInt("EMBED_BATCH_SIZE", 16),
			TaskTopic:      getEnv("INGEST_TASK_TOPIC", "ingest.document"),
		},
		Retrieval: RetrievalConfig{
			TopK:                getEnvAsInt("RETRIEVAL_TOP_K", 4),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.0),
			HistoryWindow:       getEnvAsInt("HISTORY_WINDOW", 6),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 256),
			MaxRetries:        getEnvAsInt("AI_MAX_RETRIES", 3),
			RetryBaseDelay:    getEnvAsDuration("AI_RETRY_BASE_DELAY", 500*time.Millisecond),
			RequestTimeout:    getEnvAsDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
