package bus

import (
	"context"
	"log"
)

// NullBus is a no-op implementation of the bus interface for when Redis is disabled
type NullBus struct {
	logger *log.Logger
}

// NewNullBus creates a new null bus instance
func NewNullBus(logger *log.Logger) *NullBus {
	if logger == nil {
		logger = log.New(log.Writer(), "[NullBus] ", log.LstdFlags)
	}

	return &NullBus{
		logger: logger,
	}
}

// Close is a no-op for null bus
func (nb *NullBus) Close() error {
	return nil
}

// PublishActivity logs the activity but doesn't actually publish it
func (nb *NullBus) PublishActivity(ctx context.Context, activity ActivityMessage) error {
	nb.logger.Printf("Would publish %s activity for case %s (Redis disabled)", activity.Kind, activity.CaseID)
	return nil
}

// ReadActivityStream is a no-op for null bus (blocks until cancelled)
func (nb *NullBus) ReadActivityStream(ctx context.Context, group, consumer string, handler func(ctx context.Context, activity ActivityMessage) error) error {
	nb.logger.Printf("Would read activity stream %s:%s (Redis disabled)", group, consumer)
	<-ctx.Done()
	return ctx.Err()
}

// GetStats returns empty stats for null bus
func (nb *NullBus) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{
		"type":   "null",
		"status": "disabled",
	}, nil
}

// HealthCheck always returns nil for null bus
func (nb *NullBus) HealthCheck(ctx context.Context) error {
	return nil
}
