package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message is a record to publish or one that was consumed. Key selects the
// partition, so records sharing a key keep their relative order.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

func (m Message) record(topic string, at time.Time) kafkago.Message {
	rec := kafkago.Message{Topic: topic, Key: m.Key, Value: m.Value, Time: at}
	if len(m.Headers) > 0 {
		rec.Headers = make([]kafkago.Header, 0, len(m.Headers))
		for k, v := range m.Headers {
			rec.Headers = append(rec.Headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
	}
	return rec
}

func fromRecord(rec kafkago.Message) Message {
	msg := Message{Key: rec.Key, Value: rec.Value, Headers: make(map[string]string, len(rec.Headers))}
	for _, h := range rec.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// Producer publishes to any topic through one synchronous writer. A call
// to Publish returns once every replica acknowledged the batch.
type Producer struct {
	writer *kafkago.Writer
	now    func() time.Time
}

// NewProducer builds a producer for the configured brokers. No connection
// is opened until the first Publish.
func NewProducer(cfg Config) *Producer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 5 * time.Millisecond,
		Compression:  kafkago.Snappy,
	}
	if t := cfg.transport(); t != nil {
		w.Transport = t
	}
	return &Producer{writer: w, now: time.Now}
}

// Publish writes messages to topic as one batch.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	at := p.now().UTC()
	records := make([]kafkago.Message, len(messages))
	for i, m := range messages {
		records[i] = m.record(topic, at)
	}
	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("kafka: publish %d message(s) to %s: %w", len(records), topic, err)
	}
	return nil
}

// Close flushes pending writes and releases the writer.
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("kafka: close producer: %w", err)
	}
	return nil
}
