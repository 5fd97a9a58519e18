package entity

import "time"

// Notification status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)

// Notification type constants
const (
	NotificationTypeDecision = "DECISION"
	NotificationTypeReminder = "SLA_REMINDER"
	NotificationTypeStatus   = "STATUS_CHANGE"
)

// Notification is an enqueued delivery obligation. The engine only creates
// these records; transport is an external collaborator.
type Notification struct {
	ID         int64      `json:"id"`
	InstanceID int64      `json:"instance_id,omitempty"`
	Recipient  string     `json:"recipient"`
	Type       string     `json:"type"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
