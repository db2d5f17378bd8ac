package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"conduit/internal/domain"
)

// Subjects for published domain events.
const (
	subjectUserRegistered   = "user.registered"
	subjectArticlePublished = "article.published"
)

// PublisherConfig holds configuration for creating an event publisher.
type PublisherConfig struct {
	Provider string
	NATSURL  string
}

// NewPublisher creates an event publisher from config. Provider "nats" connects to the given server; "noop" or unknown uses a no-op publisher.
func NewPublisher(config PublisherConfig) (domain.EventPublisher, error) {
	switch config.Provider {
	case "nats":
		nc, err := nats.Connect(config.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		return &natsPublisher{nc: nc}, nil
	case "noop":
		return &noopPublisher{}, nil
	default:
		log.Printf("[EVENTS] Unknown events provider %q, using noop", config.Provider)
		return &noopPublisher{}, nil
	}
}

type natsPublisher struct {
	nc *nats.Conn
}

func (p *natsPublisher) PublishUserRegistered(ctx context.Context, event *domain.UserRegisteredEvent) error {
	return p.publish(subjectUserRegistered, event)
}

func (p *natsPublisher) PublishArticlePublished(ctx context.Context, event *domain.ArticlePublishedEvent) error {
	return p.publish(subjectArticlePublished, event)
}

func (p *natsPublisher) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *natsPublisher) Close() {
	p.nc.Close()
}

type noopPublisher struct{}

func (p *noopPublisher) PublishUserRegistered(ctx context.Context, event *domain.UserRegisteredEvent) error {
	return nil
}

func (p *noopPublisher) PublishArticlePublished(ctx context.Context, event *domain.ArticlePublishedEvent) error {
	return nil
}

func (p *noopPublisher) Close() {}
