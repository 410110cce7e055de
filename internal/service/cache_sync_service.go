package service

import (
	"context"

	"estate-listing-be/internal/pkg/logger"
	"estate-listing-be/pkg/events"
	pktNats "estate-listing-be/pkg/nats"
)

const cacheSyncModule = "CacheSyncService"

// EventSubscriber is the consuming side of the domain event bus.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

type ICacheSyncService interface {
	Start(ctx context.Context) error
}

// cacheSyncService drops rendered descriptions when another instance
// changes or deletes a listing, keeping per-instance memory caches honest.
type cacheSyncService struct {
	subscriber   EventSubscriber
	descriptions IDescriptionService
	logger       logger.ILogger
}

func NewCacheSyncService(subscriber EventSubscriber, descriptions IDescriptionService, log logger.ILogger) ICacheSyncService {
	return &cacheSyncService{
		subscriber:   subscriber,
		descriptions: descriptions,
		logger:       log,
	}
}

func (s *cacheSyncService) Start(ctx context.Context) error {
	for _, eventType := range []string{events.ListingUpdated, events.ListingDeleted} {
		if err := s.subscriber.Subscribe(ctx, eventType, "", s.handle); err != nil {
			return err
		}
	}
	return nil
}

func (s *cacheSyncService) handle(ctx context.Context, event events.Event) error {
	id, ok := events.ListingID(event)
	if !ok {
		s.logger.Warn(cacheSyncModule, "event without listing id", map[string]interface{}{"event": event.EventType()})
		return nil
	}
	return s.descriptions.Invalidate(ctx, id)
}
