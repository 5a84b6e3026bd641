package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type typedEvent string

func (e typedEvent) EventType() string { return string(e) }

func TestNewEnvelope(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	env, err := NewEnvelope(" lead:123 ", "sess-1", LeadCapturedV1{
		LeadID:    "123",
		FirstName: "John",
		Phone:     "5551234567",
		Interest:  "General",
		Source:    "Chatbot - Conversational",
	}, at)
	if err != nil {
		t.Fatalf("NewEnvelope failed: %v", err)
	}

	_, err = uuid.Parse(env.EventID)
	require.NoError(t, err)
	assert.Equal(t, EventTypeLeadCaptured, env.EventType)
	assert.Equal(t, 1, env.SchemaVersion)
	assert.Equal(t, EnvelopeSource, env.Source)
	assert.Equal(t, "lead:123", env.Aggregate)
	assert.Equal(t, "sess-1", env.CorrelationID)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.True(t, env.OccurredAt.Equal(at))

	var payload LeadCapturedV1
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "5551234567", payload.Phone)
}

func TestNewEnvelope_ZeroTimeUsesNow(t *testing.T) {
	before := time.Now().Add(-time.Second)
	env, err := NewEnvelope("lead:1", "", LeadCapturedV1{}, time.Time{})
	require.NoError(t, err)
	assert.True(t, env.OccurredAt.After(before))
}

func TestNewEnvelope_Errors(t *testing.T) {
	_, err := NewEnvelope(" ", "", LeadCapturedV1{}, time.Time{})
	assert.ErrorIs(t, err, ErrMissingAggregate)

	_, err = NewEnvelope("lead:1", "", nil, time.Time{})
	assert.ErrorIs(t, err, ErrNilEvent)

	for _, bad := range []string{"", "lead.captured", "lead.captured.v", "lead.captured.v0", ".v1"} {
		_, err = NewEnvelope("lead:1", "", typedEvent(bad), time.Time{})
		assert.Error(t, err, bad)
	}

	env, err := NewEnvelope("lead:1", "", typedEvent("lead.updated.v12"), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 12, env.SchemaVersion)
}
