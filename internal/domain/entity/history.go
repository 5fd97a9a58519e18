package entity

import (
	"time"

	"github.com/plazholdr/job-finder-sub006/internal/domain/status"
)

// HistoryEntry is one immutable record in an entity's or workflow instance's
// audit trail. Entries are append-only, ordered by timestamp, never updated
// or deleted.
type HistoryEntry struct {
	ID             int64       `json:"id"`
	InstanceID     int64       `json:"instance_id,omitempty"`
	EntityKind     status.Kind `json:"entity_kind,omitempty"`
	EntityID       int64       `json:"entity_id,omitempty"`
	PreviousStatus string      `json:"previous_status"`
	NewStatus      string      `json:"new_status"`
	Action         string      `json:"action"`
	ActorID        string      `json:"actor_id"`
	ActorRole      Role        `json:"actor_role"`
	Reason         string      `json:"reason,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// History action constants
const (
	ActionCreate     = "CREATE"
	ActionTransition = "TRANSITION"
	ActionDecision   = "DECISION"
	ActionCancel     = "CANCEL"
)
