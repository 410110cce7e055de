package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"estate-listing-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber consumes domain events from the listings stream.
type Subscriber struct {
	nc   *nats.Conn
	js   jetstream.JetStream
	cons []jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe delivers events whose type matches eventType ("*" for all) to
// handler. An empty durableName creates an ephemeral consumer, so every
// service instance sees every event. Failed handlers are redelivered.
func (s *Subscriber) Subscribe(ctx context.Context, eventType, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: SubjectPrefix + eventType,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		var env envelope
		if err := json.Unmarshal(msg.Data(), &env); err != nil {
			// Poison message, never redeliver.
			_ = msg.Term()
			return
		}
		event := events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}
		if err := handler(ctx, event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.cons = append(s.cons, cc)
	return nil
}

func (s *Subscriber) Close() {
	for _, cc := range s.cons {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
