package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "INGESTION_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the pipeline.
const (
	TypeIngestionCompleted = "INGESTION_COMPLETED"
	TypeQueryCompleted     = "QUERY_COMPLETED"
)

// NewIngestionCompleted records the outcome of one ingestion task.
func NewIngestionCompleted(sessionId string, outcome string, chunks int, duration time.Duration) Event {
	return BaseEvent{
		Type: TypeIngestionCompleted,
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"outcome":     outcome,
			"chunks":      chunks,
			"duration_ms": duration.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}

// NewQueryCompleted records the outcome of one answered question. Token
// counts are estimates when the provider does not report usage.
func NewQueryCompleted(sessionId string, promptTokens, completionTokens int, estCostUsd float64, duration time.Duration) Event {
	return BaseEvent{
		Type: TypeQueryCompleted,
		Data: map[string]interface{}{
			"session_id":        sessionId,
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
			"est_cost_usd":      estCostUsd,
			"duration_ms":       duration.Milliseconds(),
		},
		OccurredAt: time.Now(),
	}
}
