package queue

import "context"

// TaskHandler processes one ingestion task. A nil return acknowledges the
// task; an error requests redelivery.
type TaskHandler func(ctx context.Context, task *IngestionTask) error

// Dispatcher decouples "a file was uploaded" from "the file has been
// indexed". Delivery is at-least-once: handlers must be idempotent.
type Dispatcher interface {
	// Enqueue durably records the task and returns. If the broker cannot be
	// reached the error carries apperr.KindQueueUnavailable so the upload
	// fails visibly instead of silently dropping work.
	Enqueue(ctx context.Context, task *IngestionTask) error

	// Consume registers the handler and starts delivering tasks, one at a
	// time, until ctx is done.
	Consume(ctx context.Context, handler TaskHandler) error

	Close()
}
