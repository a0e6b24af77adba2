package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/paradoxie/niche-dashboard/pkg/config"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// asyncPublisher - часть JetStreamContext, которая нужна publisher'у
type asyncPublisher interface {
	PublishAsync(subj string, data []byte, opts ...nats.PubOpt) (nats.PubAckFuture, error)
}

// NATSPublisher implements EventPublisher for NATS JetStream
type NATSPublisher struct {
	nc     *nats.Conn
	js     asyncPublisher
	prefix string
	logger *logger.Logger
}

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(cfg config.NATSConfig, log *logger.Logger) (*NATSPublisher, error) {
	// Connect to NATS with retry
	nc, err := nats.Connect(cfg.URL,
		nats.Name("niche-dashboard"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	log.Info("Connected to NATS", "url", cfg.URL, "prefix", cfg.SubjectPrefix)

	return newPublisher(nc, js, cfg.SubjectPrefix, log), nil
}

func newPublisher(nc *nats.Conn, js asyncPublisher, prefix string, log *logger.Logger) *NATSPublisher {
	return &NATSPublisher{
		nc:     nc,
		js:     js,
		prefix: strings.Trim(prefix, "."),
		logger: log,
	}
}

// Subject добавляет префикс окружения: "niche" + "github.synced" -> "niche.github.synced"
func (p *NATSPublisher) Subject(subject string) string {
	if p.prefix == "" {
		return subject
	}
	return p.prefix + "." + subject
}

// PublishEvent publishes an event to NATS (async)
func (p *NATSPublisher) PublishEvent(ctx context.Context, subject string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	full := p.Subject(subject)

	// fire-and-forget, ack обрабатывает JetStream
	if _, err := p.js.PublishAsync(full, data); err != nil {
		p.logger.Error("Failed to publish event", err, "subject", full)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		"subject", full,
		"size", len(data),
	)

	return nil
}

// Ping проверяет состояние соединения
func (p *NATSPublisher) Ping(_ context.Context) error {
	if p.nc == nil || !p.nc.IsConnected() {
		return fmt.Errorf("nats is not connected")
	}
	return nil
}

// Close closes the NATS connection
func (p *NATSPublisher) Close() error {
	if p.nc != nil {
		p.logger.Info("Closing NATS connection")
		if err := p.nc.Drain(); err != nil {
			p.nc.Close()
			return fmt.Errorf("failed to drain NATS connection: %w", err)
		}
	}
	return nil
}
