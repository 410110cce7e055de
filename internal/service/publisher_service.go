package service

import (
	"context"
	"encoding/json"

	"estate-listing-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	PublishRenderDescription(ctx context.Context, msg dto.RenderListingDescriptionMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) PublishRenderDescription(ctx context.Context, payload dto.RenderListingDescriptionMessage) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}
