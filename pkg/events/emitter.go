package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"docgrounder-be/internal/pkg/logger"
)

const topicName = "pipeline.events"

// Emitter publishes pipeline events on an in-process pub/sub channel.
// Publishing is best-effort: a failed emit must never fail the operation
// that produced the event.
type Emitter struct {
	pubSub *gochannel.GoChannel
	log    logger.ILogger
}

type wireEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewEmitter(log logger.ILogger) *Emitter {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NopLogger{})
	return &Emitter{
		pubSub: pubSub,
		log:    log,
	}
}

func (e *Emitter) Emit(evt Event) {
	payload, err := json.Marshal(wireEvent{
		Type:       evt.EventType(),
		Data:       evt.Payload(),
		OccurredAt: evt.Timestamp(),
	})
	if err != nil {
		e.log.Warn("events", "failed to marshal event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := e.pubSub.Publish(topicName, msg); err != nil {
		e.log.Warn("events", "failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}

// StartLogSink subscribes to the event topic and writes every event to the
// structured log. Runs until ctx is cancelled.
func (e *Emitter) StartLogSink(ctx context.Context) error {
	messages, err := e.pubSub.Subscribe(ctx, topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var evt wireEvent
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				e.log.Warn("events", "failed to unmarshal event", map[string]interface{}{
					"error": err.Error(),
				})
				msg.Ack()
				continue
			}

			details := map[string]interface{}{
				"occurred_at": evt.OccurredAt.Format(time.RFC3339),
			}
			for k, v := range evt.Data {
				details[k] = v
			}
			e.log.Info("events", evt.Type, details)
			msg.Ack()
		}
	}()

	return nil
}

func (e *Emitter) Close() error {
	return e.pubSub.Close()
}
