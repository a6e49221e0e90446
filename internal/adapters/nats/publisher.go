package natsadapter

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/dongne/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the listing stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      StreamListings,
		Subjects:  []string{AllSubjects},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishListingCreated publishes to listing.created.<geohash5>.
func (p *Publisher) PublishListingCreated(ctx context.Context, event *domain.ListingEvent) error {
	return p.publish(ctx, CreatedSubject(event.Location), event)
}

// PublishListingStatusChanged publishes to listing.status.<status>.
func (p *Publisher) PublishListingStatusChanged(ctx context.Context, event *domain.ListingEvent) error {
	return p.publish(ctx, StatusSubject(event.Status), event)
}

func (p *Publisher) publish(ctx context.Context, subject string, event *domain.ListingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx), nats.MsgId(event.ListingID+":"+event.Type+":"+string(event.Status)+":"+event.Time.Format(time.RFC3339Nano)))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
