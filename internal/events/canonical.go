// Package events publishes domain events about captured leads.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnvelopeSource identifies this service as the producer on every envelope.
const EnvelopeSource = "clara-insurance-guide"

// Event is a domain event. EventType must end in a ".v<N>" schema suffix.
type Event interface {
	EventType() string
}

// Envelope is the JSON document placed on the queue.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SchemaVersion int             `json:"schema_version"`
	Source        string          `json:"source"`
	Aggregate     string          `json:"aggregate"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

var (
	ErrMissingAggregate = errors.New("events: aggregate is required")
	ErrNilEvent         = errors.New("events: event is required")
)

// NewEnvelope wraps evt for transport. aggregate names the entity the event
// belongs to ("lead:<id>"); correlationID is the chat session.
func NewEnvelope(aggregate, correlationID string, evt Event, at time.Time) (Envelope, error) {
	aggregate = strings.TrimSpace(aggregate)
	if aggregate == "" {
		return Envelope{}, ErrMissingAggregate
	}
	if evt == nil {
		return Envelope{}, ErrNilEvent
	}
	eventType := strings.TrimSpace(evt.EventType())
	version, err := schemaVersion(eventType)
	if err != nil {
		return Envelope{}, err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal %s payload: %w", eventType, err)
	}
	if at.IsZero() {
		at = time.Now()
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		SchemaVersion: version,
		Source:        EnvelopeSource,
		Aggregate:     aggregate,
		CorrelationID: strings.TrimSpace(correlationID),
		OccurredAt:    at.UTC(),
		Payload:       payload,
	}, nil
}

// schemaVersion reads N from a "name.vN" event type.
func schemaVersion(eventType string) (int, error) {
	idx := strings.LastIndex(eventType, ".v")
	if idx <= 0 {
		return 0, fmt.Errorf("events: event type %q has no version suffix", eventType)
	}
	n, err := strconv.Atoi(eventType[idx+2:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("events: event type %q has no version suffix", eventType)
	}
	return n, nil
}
