package service

import (
	"context"
	"encoding/json"

	"site-content-be/internal/dto"
	"site-content-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService re-renders saved documents so the next read is a cache hit.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	content   IContentService
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	content IContentService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		content:   content,
		logger:    log,
	}
}

// Consume subscribes and processes messages in the background until ctx ends.
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
	var payload dto.PublishDocumentSavedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid messages are never retried
		return
	}

	key := dto.ContentKey{Slug: payload.Slug, Locale: payload.Locale}
	if err := cs.content.Warm(ctx, key); err != nil {
		cs.logger.Warn("Consumer", "Failed to warm render cache", map[string]interface{}{
			"slug": key.Slug, "locale": key.Locale, "error": err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Debug("Consumer", "Render cache warmed", map[string]interface{}{"slug": key.Slug, "locale": key.Locale})
	msg.Ack()
}
