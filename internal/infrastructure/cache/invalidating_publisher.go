package cache

import (
	"context"
	"log/slog"

	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/internal/domain/port"
)

// InvalidatingPublisher drops the local dashboard cache before forwarding
// events, so the writing replica never serves a stale dashboard even when the
// bus is slow.
type InvalidatingPublisher struct {
	next   port.EventPublisher
	cache  port.DashboardCache
	logger *slog.Logger
}

// NewInvalidatingPublisher wraps next.
func NewInvalidatingPublisher(next port.EventPublisher, cache port.DashboardCache, logger *slog.Logger) *InvalidatingPublisher {
	return &InvalidatingPublisher{next: next, cache: cache, logger: logger}
}

// Publish invalidates the cache when there is at least one event. A cache
// failure is logged and does not block publishing.
func (p *InvalidatingPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if len(events) > 0 {
		if err := p.cache.Invalidate(ctx); err != nil {
			p.logger.WarnContext(ctx, "dashboard cache invalidation failed", "error", err)
		}
	}
	return p.next.Publish(ctx, events...)
}
