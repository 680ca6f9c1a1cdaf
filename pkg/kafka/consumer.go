package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed message. Handlers must be idempotent: a
// message is redelivered when the process stops before its commit.
type Handler func(ctx context.Context, msg Message) error

const (
	defaultHandlerAttempts = 3
	defaultHandlerBackoff  = 250 * time.Millisecond
)

// ConsumerOption tunes a Consumer.
type ConsumerOption func(*kafkago.ReaderConfig, *Consumer)

// FromLatest makes a group with no committed offset skip the backlog.
func FromLatest() ConsumerOption {
	return func(rc *kafkago.ReaderConfig, _ *Consumer) { rc.StartOffset = kafkago.LastOffset }
}

// WithHandlerRetry sets how often a failing handler is retried before the
// message is skipped, and the pause between attempts.
func WithHandlerRetry(attempts int, backoff time.Duration) ConsumerOption {
	return func(_ *kafkago.ReaderConfig, c *Consumer) {
		if attempts > 0 {
			c.attempts = attempts
		}
		c.backoff = backoff
	}
}

// Consumer reads one topic as part of a consumer group and commits each
// message after its handler ran.
type Consumer struct {
	reader   *kafkago.Reader
	handler  Handler
	logger   *slog.Logger
	attempts int
	backoff  time.Duration
}

// NewConsumer joins cfg.ConsumerGroup on topic.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	rc := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 1 << 20,
		MaxWait:  time.Second,
	}
	if d := cfg.dialer(); d != nil {
		rc.Dialer = d
	}

	c := &Consumer{
		handler:  handler,
		logger:   logger.With("topic", topic, "group", cfg.ConsumerGroup),
		attempts: defaultHandlerAttempts,
		backoff:  defaultHandlerBackoff,
	}
	for _, opt := range opts {
		opt(&rc, c)
	}
	c.reader = kafkago.NewReader(rc)
	return c
}

// Run consumes until ctx is canceled, which is not reported as an error.
// A message whose handler keeps failing is logged and committed anyway so
// it cannot stall the partition.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		rec, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped")
				return nil
			}
			return fmt.Errorf("kafka: fetch: %w", err)
		}

		log := c.logger.With("partition", rec.Partition, "offset", rec.Offset)
		if err := c.handle(ctx, fromRecord(rec)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error("skipping message after failed handler", "attempts", c.attempts, "error", err)
		}

		if err := c.reader.CommitMessages(ctx, rec); err != nil && ctx.Err() == nil {
			log.Warn("commit failed", "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg Message) error {
	var errs []error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		err := c.handler(ctx, msg)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}
	return errors.Join(errs...)
}

// Close leaves the group and releases the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("kafka: close consumer: %w", err)
	}
	return nil
}
