// Package notify provides the change notification channel consumed by the
// reconciliation listener. Delivery is best-effort, unordered and non-durable
// across reconnects; missed events are tolerated because explicit refreshes
// after writes provide a fallback.
package notify

import (
	"context"
	"encoding/json"
)

// Operation is the kind of row change carried by an event.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Event describes a single row change on a table.
type Event struct {
	Op    Operation `json:"op"`
	Table string    `json:"table"`
	// Key is the scoping value subscriptions filter on (the folio ID for
	// charge and payment tables).
	Key string          `json:"key"`
	Row json.RawMessage `json:"row,omitempty"`
}

// Handler receives events for a subscription. Handlers are invoked from the
// channel's dispatch goroutine and must not block for long.
type Handler func(Event)

// Subscription is a live registration on a channel.
type Subscription interface {
	// Unsubscribe tears the registration down. Safe to call more than once.
	Unsubscribe()
}

// Channel is the transport-agnostic subscription surface. A filter of "" means
// all rows of the table; otherwise only events whose Key equals the filter are
// delivered.
type Channel interface {
	Subscribe(ctx context.Context, table string, filter string, handler Handler) (Subscription, error)
}
