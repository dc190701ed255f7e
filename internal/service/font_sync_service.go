package service

import (
	"context"

	"site-content-be/internal/pkg/logger"
	"site-content-be/pkg/events"
	pktNats "site-content-be/pkg/nats"
)

// EventSubscriber registers handlers for cross-instance events.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

type IFontSyncService interface {
	Start(ctx context.Context) error
}

// fontSyncService re-injects fonts on this instance whenever any instance
// reports FONTS_CHANGED.
type fontSyncService struct {
	subscriber  EventSubscriber
	fonts       IFontService
	durableName string
	logger      logger.ILogger
}

func NewFontSyncService(subscriber EventSubscriber, fonts IFontService, instanceID string, log logger.ILogger) IFontSyncService {
	return &fontSyncService{
		subscriber:  subscriber,
		fonts:       fonts,
		durableName: "font-sync-" + instanceID,
		logger:      log,
	}
}

// Start injects the stored fonts once, then follows FONTS_CHANGED.
func (s *fontSyncService) Start(ctx context.Context) error {
	_ = s.fonts.Sync(ctx)

	if s.subscriber == nil {
		s.logger.Warn("FontSync", "No event subscriber, fonts sync only at startup and on local changes", nil)
		return nil
	}
	return s.subscriber.Subscribe(ctx, events.FontsChanged, s.durableName, s.handle)
}

func (s *fontSyncService) handle(ctx context.Context, event events.Event) error {
	s.logger.Info("FontSync", "Fonts changed elsewhere, re-injecting", map[string]interface{}{
		"reason": events.StringField(event, "reason"),
	})
	// A failed fetch keeps the current rules; acknowledging avoids a retry
	// storm while storage is down. The next change or restart re-syncs.
	_ = s.fonts.Sync(ctx)
	return nil
}
