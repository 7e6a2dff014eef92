package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the NATS subject content events are published on
const DefaultSubject = "site.content.changed"

// NATSConfig holds NATS connection configuration
type NATSConfig struct {
	URL     string
	Subject string
	Name    string
}

// NATSBus shares content events between site instances through NATS
type NATSBus struct {
	conn    *nats.Conn
	subject string
}

// NewNATSBus connects to the NATS server at cfg.URL
func NewNATSBus(cfg NATSConfig) (*NATSBus, error) {
	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSBus{conn: conn, subject: subject}, nil
}

func (b *NATSBus) Publish(ctx context.Context, ev ContentChanged) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (b *NATSBus) Subscribe(h Handler) (func(), error) {
	sub, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		var ev ContentChanged
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("dropping malformed content event", "error", err)
			return
		}
		h(context.Background(), ev)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			slog.Debug("nats unsubscribe failed", "error", err)
		}
	}, nil
}

// Flush waits until the server has processed all published events
func (b *NATSBus) Flush() error {
	return b.conn.Flush()
}

// HealthCheck reports whether the connection is up
func (b *NATSBus) HealthCheck(ctx context.Context) error {
	if !b.conn.IsConnected() {
		return fmt.Errorf("nats connection %s", b.conn.Status())
	}
	return nil
}

func (b *NATSBus) Close() error {
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		return err
	}
	return nil
}
