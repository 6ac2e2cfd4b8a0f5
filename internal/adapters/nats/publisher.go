package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

const (
	optimizationStream          = "ROUTE_OPTIMIZATIONS"
	optimizationCompletedPrefix = "fuelroute.optimization.completed."
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("fuelroute"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      optimizationStream,
		Subjects:  []string{"fuelroute.optimization.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// OptimizationCompletedSubject returns the subject a record is published on.
func OptimizationCompletedSubject(id string) string {
	return optimizationCompletedPrefix + id
}

// PublishOptimizationCompleted publishes the saved record. The record id doubles
// as the JetStream message id so retried publishes are deduplicated.
func (p *Publisher) PublishOptimizationCompleted(ctx context.Context, rec *domain.RouteOptimizationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(OptimizationCompletedSubject(rec.ID), data,
		nats.Context(ctx),
		nats.MsgId(rec.ID),
	)
	return err
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
