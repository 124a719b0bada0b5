// Package pubsub implements a Google Cloud Pub/Sub event publisher.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
)

// Publisher sends crawl events to one Pub/Sub topic.
type Publisher struct {
	publisher *pubsub.Publisher
	topic     string
}

// New creates a Publisher bound to the provided topic publisher.
func New(topicPublisher *pubsub.Publisher, topic string) *Publisher {
	return &Publisher{publisher: topicPublisher, topic: topic}
}

// Publish marshals the payload to JSON and publishes it. The topic argument
// is recorded as a message attribute; the transport topic is fixed at
// construction time.
func (p *Publisher) Publish(ctx context.Context, topic string, payload any) (string, error) {
	if p.publisher == nil {
		return "", fmt.Errorf("pubsub publisher is not configured")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	msg := &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event": topic},
	}
	result := p.publisher.Publish(ctx, msg)
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return id, nil
}
