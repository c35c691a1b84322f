package producer

import (
	"context"

	"claimtrace/internal/models"
)

// Producer defines the interface for message queue producers.
type Producer interface {
	// Publish sends a single claim message to the configured topic
	Publish(ctx context.Context, msg *models.ClaimMessage) error

	// PublishBatch sends claim messages in batch to the configured topic
	PublishBatch(ctx context.Context, msgs []*models.ClaimMessage) error

	// Close closes the producer connection
	Close() error
}
