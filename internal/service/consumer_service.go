package service

import (
	"context"

	"docchat-client/internal/pkg/logger"
	"docchat-client/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventHandler reacts to one state event taken off the bus.
type EventHandler func(ctx context.Context, event events.Event) error

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	handlers  []EventHandler
	logger    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger, handlers ...EventHandler) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		handlers:  handlers,
		logger:    log,
	}
}

// Consume subscribes to the topic and dispatches in the background until
// ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("Consumer", "Dropping undecodable message", map[string]interface{}{"uuid": msg.UUID, "error": err})
		msg.Ack()
		return
	}

	for _, handle := range cs.handlers {
		if err := handle(ctx, event); err != nil {
			// Handlers are best effort; one failing sink must not starve the others.
			cs.logger.Warn("Consumer", "Event handler failed", map[string]interface{}{
				"type":   event.EventType(),
				"action": events.Action(event),
				"error":  err,
			})
		}
	}
	msg.Ack()
}
