package messaging

import (
	"context"

	"github.com/artivio/artivio-chain/internal/domain"
)

// Publisher defines the interface for publishing token lifecycle events
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a confirmed token event to the message broker
	PublishEvent(ctx context.Context, event *domain.TokenEvent) error
	// Close closes the connection
	Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event.
// It is used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishEvent(context.Context, *domain.TokenEvent) error { return nil }

func (noopPublisher) Close() {}
