package bus

import (
	"context"
	"io"
	"log"
)

// Bus defines the interface for case-activity bus implementations
type Bus interface {
	// PublishActivity publishes a case activity to the activity stream
	PublishActivity(ctx context.Context, activity ActivityMessage) error

	// ReadActivityStream reads from the activity stream
	ReadActivityStream(ctx context.Context, group, consumer string, handler func(ctx context.Context, activity ActivityMessage) error) error

	// GetStats returns basic statistics about the bus
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// HealthCheck performs a health check on the bus connection
	HealthCheck(ctx context.Context) error

	// Close closes the bus connection
	Close() error
}

// Activity kinds published to the stream.
const (
	ActivityMessageSent      = "message_sent"
	ActivityEvidenceUploaded = "evidence_uploaded"
	ActivityEvidenceDeleted  = "evidence_deleted"
	ActivityCaseOpened       = "case_opened"
)

// NewBus creates a new bus instance based on the Redis URL.
// If redisURL is empty or invalid, returns a NullBus.
func NewBus(redisURL string, logger *log.Logger) Bus {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if redisURL == "" {
		return NewNullBus(logger)
	}

	if redisBus, err := NewRedisBus(redisURL, logger); err == nil {
		return redisBus
	}

	// Fall back to null bus if Redis fails
	return NewNullBus(logger)
}
