package repositories

import (
	"context"
	"time"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// QueueActionStore persists queued front-desk actions in local durable
// storage that survives process restarts. Enqueue order must be preserved.
type QueueActionStore interface {
	// AppendAction durably records a queued action.
	AppendAction(ctx context.Context, action domain.QueuedAction) error

	// ListActions retrieves all queued actions in enqueue order.
	ListActions(ctx context.Context) ([]domain.QueuedAction, error)

	// MarkActionRetrying sets the action's status to retrying while a
	// redelivery attempt is in flight.
	MarkActionRetrying(ctx context.Context, actionID string) error

	// MarkActionFailed sets the action's status to failed and stores the
	// incremented retry count.
	MarkActionFailed(ctx context.Context, actionID string, retryCount int) error

	// DeleteAction removes an action after confirmed delivery.
	DeleteAction(ctx context.Context, actionID string) error
}

// OfflineClockStore persists the offline-start timestamp so the grace window
// survives restarts.
type OfflineClockStore interface {
	// OfflineSince returns the persisted disconnect time, or nil when the
	// terminal is not marked offline.
	OfflineSince(ctx context.Context) (*time.Time, error)

	// SetOfflineSince persists the disconnect time.
	SetOfflineSince(ctx context.Context, t time.Time) error

	// ClearOfflineSince removes the disconnect marker.
	ClearOfflineSince(ctx context.Context) error
}

// QueueStorageFacade combines local queue persistence interfaces
type QueueStorageFacade interface {
	QueueActionStore
	OfflineClockStore
}
