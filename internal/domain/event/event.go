package event

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Event represents a domain event emitted by the workflow engine
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	InstanceID    int64                  `json:"instance_id,omitempty"`
	EntityKind    string                 `json:"entity_kind,omitempty"`
	EntityID      int64                  `json:"entity_id,omitempty"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp
func NewEvent(eventType Type, instanceID int64, payload map[string]interface{}) *Event {
	return &Event{
		ID:            generateID(),
		Type:          eventType,
		InstanceID:    instanceID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: generateID(),
	}
}

// NewEntityEvent creates an event scoped to a status-bearing entity rather
// than a workflow instance
func NewEntityEvent(eventType Type, entityKind string, entityID int64, payload map[string]interface{}) *Event {
	evt := NewEvent(eventType, 0, payload)
	evt.EntityKind = entityKind
	evt.EntityID = entityID
	return evt
}

// WithPayload returns a new Event with an added payload key-value pair
// (immutable operation)
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	evt := *e
	evt.Payload = newPayload
	return &evt
}

// generateID produces a random 16-byte hex identifier
func generateID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b)
}
