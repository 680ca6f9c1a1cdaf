package events

import (
	"encoding/json"
	"testing"
	"time"
)

type loanEvent struct {
	BaseEvent
	Amount string `json:"amount"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := "loan-123"
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	event := NewBaseEvent("lending.loan.approved", aggregateID, "Loan", at)

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}

	if event.EventType() != "lending.loan.approved" {
		t.Errorf("expected event type %q, got %q", "lending.loan.approved", event.EventType())
	}

	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}

	if event.AggregateType() != "Loan" {
		t.Errorf("expected aggregate type %q, got %q", "Loan", event.AggregateType())
	}

	if !event.OccurredAt().Equal(at) {
		t.Errorf("expected occurredAt %v, got %v", at, event.OccurredAt())
	}
}

func TestNewBaseEventUniqueIDs(t *testing.T) {
	a := NewBaseEvent("x", "agg", "Loan", time.Now())
	b := NewBaseEvent("x", "agg", "Loan", time.Now())
	if a.EventID() == b.EventID() {
		t.Error("expected distinct event IDs")
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestNewEnvelope(t *testing.T) {
	event := loanEvent{
		BaseEvent: NewBaseEvent("lending.payment.recorded", "loan-789", "Loan", time.Now()),
		Amount:    "93.33",
	}

	env, err := NewEnvelope(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.ID != event.EventID() {
		t.Errorf("expected envelope ID %v, got %v", event.EventID(), env.ID)
	}

	if env.AggregateID != "loan-789" {
		t.Errorf("expected aggregate ID %v, got %v", "loan-789", env.AggregateID)
	}

	if env.EventType != "lending.payment.recorded" {
		t.Errorf("expected event type %q, got %q", "lending.payment.recorded", env.EventType)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(env.Payload, &parsed); err != nil {
		t.Fatalf("expected valid JSON payload, got error: %v", err)
	}

	if parsed["amount"] != "93.33" {
		t.Errorf("expected amount in payload, got %v", parsed["amount"])
	}

	if parsed["event_type"] != "lending.payment.recorded" {
		t.Errorf("expected embedded header in payload, got %v", parsed["event_type"])
	}
}

func TestEnvelopeMarshal(t *testing.T) {
	env, err := NewEnvelope(NewBaseEvent("lending.loan.completed", "loan-1", "Loan", time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := env.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Envelope
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.EventType != "lending.loan.completed" {
		t.Errorf("expected event type to round trip, got %q", decoded.EventType)
	}
}
