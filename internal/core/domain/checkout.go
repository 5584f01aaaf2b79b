package domain

import "time"

// CheckoutStatus is the state of a checkout session.
// pending (balance>0) -> ready (balance<=0) -> completed (terminal).
type CheckoutStatus string

const (
	CheckoutPending   CheckoutStatus = "pending"
	CheckoutReady     CheckoutStatus = "ready"
	CheckoutCompleted CheckoutStatus = "completed"
)

// StatusForBalance derives the pre-completion checkout status from a balance.
// A session whose balance is already settled at open time starts out ready.
func StatusForBalance(balance int64) CheckoutStatus {
	if balance <= 0 {
		return CheckoutReady
	}
	return CheckoutPending
}

// CheckoutSession couples a room to its current guest bill while the front
// desk settles it. Sessions are explicit owned state: created on room select,
// passed into every operation, destroyed on deselect. Completed is terminal;
// Refresh never demotes it.
type CheckoutSession struct {
	SessionID   string         `json:"sessionID"`
	RoomID      string         `json:"roomID"`
	Bill        *GuestBill     `json:"bill"`
	Payments    []Payment      `json:"payments"`
	Status      CheckoutStatus `json:"checkoutStatus"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	CompletedBy string         `json:"completedBy,omitempty"`
}
