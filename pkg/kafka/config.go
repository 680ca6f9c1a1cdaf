package kafka

import (
	"crypto/tls"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Config holds Kafka connection parameters.
type Config struct {
	// ConsumerGroup is only used by consumers.
	ConsumerGroup string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN" or "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// TLS enables TLS for Kafka connections.
	TLS         bool
	SASLEnabled bool
}

func (cfg Config) tlsConfig() *tls.Config {
	if !cfg.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// saslMechanism returns the configured SASL mechanism, or nil when SASL is
// disabled or the mechanism is unknown.
func (cfg Config) saslMechanism() sasl.Mechanism {
	if !cfg.SASLEnabled {
		return nil
	}
	switch cfg.SASLMechanism {
	case "SCRAM-SHA-256":
		m, err := scram.Mechanism(scram.SHA256, cfg.SASLUsername, cfg.SASLPassword)
		if err != nil {
			return nil
		}
		return m
	case "SCRAM-SHA-512":
		m, err := scram.Mechanism(scram.SHA512, cfg.SASLUsername, cfg.SASLPassword)
		if err != nil {
			return nil
		}
		return m
	case "PLAIN", "":
		return &plain.Mechanism{
			Username: cfg.SASLUsername,
			Password: cfg.SASLPassword,
		}
	default:
		return nil
	}
}

// dialer builds a reader dialer, or nil for plaintext unauthenticated brokers.
func (cfg Config) dialer() *kafkago.Dialer {
	if !cfg.TLS && !cfg.SASLEnabled {
		return nil
	}
	return &kafkago.Dialer{
		TLS:           cfg.tlsConfig(),
		SASLMechanism: cfg.saslMechanism(),
	}
}

// transport builds a writer transport, or nil to use the kafka-go default.
func (cfg Config) transport() *kafkago.Transport {
	if !cfg.TLS && !cfg.SASLEnabled {
		return nil
	}
	return &kafkago.Transport{
		TLS:  cfg.tlsConfig(),
		SASL: cfg.saslMechanism(),
	}
}
