package port

import (
	"context"
)

// Subjects of domain events (prefixed by the publisher)
const (
	SubjectHealthChanged  = "project.health_changed"
	SubjectProjectChanged = "project.changed"
	SubjectGithubSynced   = "github.synced"
	SubjectDataImported   = "data.imported"
)

// EventPublisher defines the interface for publishing events to a message broker
type EventPublisher interface {
	// PublishEvent publishes an event to the specified subject
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Close closes the connection to the message broker
	Close() error
}
