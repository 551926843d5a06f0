package queue

import (
	"context"
	"encoding/json"
	"log"

	"docgrounder-be/pkg/apperr"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelDispatcher runs the queue in-process via watermill. It keeps the
// same at-least-once contract (Nack redelivers) but is not durable across
// restarts; use it for single-binary dev mode and tests.
type GoChannelDispatcher struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewGoChannelDispatcher(topic string) *GoChannelDispatcher {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	return &GoChannelDispatcher{pubSub: pubSub, topic: topic}
}

func (d *GoChannelDispatcher) Enqueue(ctx context.Context, task *IngestionTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := d.pubSub.Publish(d.topic, msg); err != nil {
		return apperr.Wrap(apperr.KindQueueUnavailable, "failed to enqueue ingestion task", err)
	}
	return nil
}

func (d *GoChannelDispatcher) Consume(ctx context.Context, handler TaskHandler) error {
	messages, err := d.pubSub.Subscribe(ctx, d.topic)
	if err != nil {
		return err
	}

	for msg := range messages {
		var task IngestionTask
		if err := json.Unmarshal(msg.Payload, &task); err != nil {
			log.Printf("Error unmarshalling task payload: %v", err)
			msg.Ack() // poison message, never retriable
			continue
		}

		if err := handler(ctx, &task); err != nil {
			log.Printf("Handler failed for task %s: %v", task.TaskId, err)
			msg.Nack()
			continue
		}

		msg.Ack()
	}

	return nil
}

func (d *GoChannelDispatcher) Close() {
	_ = d.pubSub.Close()
}
