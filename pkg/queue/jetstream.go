package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"docgrounder-be/pkg/apperr"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName  = "INGEST"
	durableName = "ingest-worker"
)

// JetStreamDispatcher is the durable Dispatcher backed by NATS JetStream.
// The stream uses file storage with work-queue retention, so tasks survive a
// crash of either the enqueuing or the consuming process.
type JetStreamDispatcher struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	subject string
}

func NewJetStreamDispatcher(url, subject string) (*JetStreamDispatcher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subject},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		log.Printf("Warn: Failed to ensure stream %q: %v", streamName, err)
		// Don't fail hard here, maybe it already exists or NATS isn't ready
	}

	return &JetStreamDispatcher{nc: nc, js: js, subject: subject}, nil
}

func (d *JetStreamDispatcher) Enqueue(ctx context.Context, task *IngestionTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if _, err := d.js.Publish(ctx, d.subject, data); err != nil {
		return apperr.Wrap(apperr.KindQueueUnavailable, "failed to enqueue ingestion task", err)
	}

	return nil
}

func (d *JetStreamDispatcher) Consume(ctx context.Context, handler TaskHandler) error {
	consumer, err := d.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: d.subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       5 * time.Minute,
		// One unacked task at a time: ingestion for the same session must not
		// run concurrently with itself.
		MaxAckPending: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		var task IngestionTask
		if err := json.Unmarshal(msg.Data(), &task); err != nil {
			log.Printf("Error unmarshalling task payload: %v", err)
			msg.Ack() // poison message, never retriable
			return
		}

		if err := handler(ctx, &task); err != nil {
			log.Printf("Handler failed for task %s: %v", task.TaskId, err)
			msg.Nak() // redeliver
			return
		}

		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	<-ctx.Done()
	cc.Stop()
	return nil
}

func (d *JetStreamDispatcher) Close() {
	if d.nc != nil {
		d.nc.Close()
	}
}
