package domain

import (
	"encoding/json"
	"time"
)

// ActionType identifies a front-desk action that can be queued offline.
type ActionType string

const (
	ActionCheckIn       ActionType = "check_in"
	ActionAssignRoom    ActionType = "assign_room"
	ActionPostCharge    ActionType = "post_charge"
	ActionSubmitPayment ActionType = "submit_payment"
)

// QueuedActionStatus tracks delivery progress of a queued action.
type QueuedActionStatus string

const (
	QueuedPending  QueuedActionStatus = "pending"
	QueuedRetrying QueuedActionStatus = "retrying"
	QueuedFailed   QueuedActionStatus = "failed"
)

// QueuedAction is a front-desk action recorded while the terminal was
// offline. Actions are persisted locally, replayed strictly in enqueue order,
// and removed only after confirmed remote success. Delivery is at-least-once:
// handlers must be idempotent keyed by the action ID plus its semantic target.
type QueuedAction struct {
	ActionID   string             `json:"actionID"` // Primary Key (UUID), also the idempotency key
	ActionType ActionType         `json:"actionType"`
	Target     string             `json:"target"` // semantic target, e.g. reservation ID
	Payload    json.RawMessage    `json:"payload"`
	Status     QueuedActionStatus `json:"status"`
	RetryCount int                `json:"retryCount"`
	EnqueuedAt time.Time          `json:"enqueuedAt"`
}
