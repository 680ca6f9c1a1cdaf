package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/andresv02/loan-management-system/internal/domain/port"
	pkgkafka "github.com/andresv02/loan-management-system/pkg/kafka"
)

// DashboardInvalidator drops the cached dashboard whenever a lending event
// arrives on the topic, so every replica sees writes made by the others.
type DashboardInvalidator struct {
	cache  port.DashboardCache
	logger *slog.Logger
}

// NewDashboardInvalidator creates the consumer handler.
func NewDashboardInvalidator(cache port.DashboardCache, logger *slog.Logger) *DashboardInvalidator {
	return &DashboardInvalidator{cache: cache, logger: logger}
}

// Handle is a pkg/kafka.Handler. Messages without a lending event type are
// acknowledged and ignored.
func (d *DashboardInvalidator) Handle(ctx context.Context, msg pkgkafka.Message) error {
	eventType := msg.Headers[HeaderEventType]
	if !strings.HasPrefix(eventType, "lending.") {
		return nil
	}
	if err := d.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate dashboard after %s: %w", eventType, err)
	}
	d.logger.DebugContext(ctx, "dashboard cache invalidated", "event_type", eventType, "key", string(msg.Key))
	return nil
}
