package service

import (
	"context"
	"encoding/json"

	"estate-listing-be/internal/dto"
	"estate-listing-be/internal/pkg/logger"
	"estate-listing-be/internal/repository/specification"
	"estate-listing-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

const consumerModule = "ConsumerService"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService pre-renders descriptions published on the warm-up topic so
// the first public visitor hits a warm cache.
type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	descriptions IDescriptionService
	locales      []string
	logger       logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	descriptions IDescriptionService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		uowFactory:   uowFactory,
		descriptions: descriptions,
		locales:      []string{"id", "en"},
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var payload dto.RenderListingDescriptionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerModule, "invalid warm-up message", map[string]interface{}{"error": err})
		msg.Ack() // never retry garbage
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	listing, err := uow.ListingRepository().FindOne(ctx, specification.ByID{ID: payload.ListingId})
	if err != nil {
		cs.logger.Error(consumerModule, "failed to load listing", map[string]interface{}{
			"listing_id": payload.ListingId.String(),
			"error":      err,
		})
		msg.Nack()
		return
	}
	if listing == nil || listing.DescriptionVersion() != payload.Version {
		// Deleted or already superseded by a newer revision.
		msg.Ack()
		return
	}

	for _, locale := range cs.locales {
		cs.descriptions.Render(ctx, listing.Id, payload.Version, listing.Description, locale)
	}
	cs.logger.Debug(consumerModule, "description pre-rendered", map[string]interface{}{
		"listing_id": listing.Id.String(),
		"version":    payload.Version,
	})
	msg.Ack()
}
