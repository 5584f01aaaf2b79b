package services

import (
	"context"
	"encoding/json"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// ConnectivityState is the terminal's view of its link to the store.
type ConnectivityState string

const (
	ConnOnline          ConnectivityState = "online"
	ConnOffline         ConnectivityState = "offline"
	ConnOfflineReadOnly ConnectivityState = "offline_readonly"
)

// ActionHandler delivers a queued action to the store. Handlers must be
// idempotent keyed by the action ID plus its semantic target: at-least-once
// delivery means a handler can see the same action twice when a response is
// lost.
type ActionHandler func(ctx context.Context, action domain.QueuedAction) error

// QueueConnectivitySvc tracks the terminal's connectivity state machine:
// online -> offline (disconnect) -> offline-readonly (grace window expired)
// -> online (reconnect, clearing the grace timer).
type QueueConnectivitySvc interface {
	// SetOffline records the disconnect and starts the grace window unless
	// one is already running.
	SetOffline(ctx context.Context) error

	// SetOnline records the reconnect and clears the grace timer.
	SetOnline(ctx context.Context) error

	// Connectivity returns the current state, accounting for grace expiry.
	Connectivity() ConnectivityState
}

// QueueSvcFacade buffers front-desk actions recorded while offline and
// replays them once connectivity returns.
type QueueSvcFacade interface {
	QueueConnectivitySvc

	// Enqueue durably records an action for later replay. While the terminal
	// is offline-readonly it fails with apperrors.ErrReadOnly.
	Enqueue(ctx context.Context, actionType domain.ActionType, target string, payload json.RawMessage) (*domain.QueuedAction, error)

	// RetryQueue processes pending and failed actions strictly in enqueue
	// order, one at a time. Success removes the action; failure marks it
	// failed, increments its retry count and ends the pass (later actions
	// may be causally dependent). Concurrent invocations coalesce into the
	// pass already in flight. Returns the number of delivered actions.
	RetryQueue(ctx context.Context) (int, error)

	// RegisterHandler binds a handler to an action type.
	RegisterHandler(actionType domain.ActionType, handler ActionHandler)

	// Pending lists the currently queued actions in enqueue order.
	Pending(ctx context.Context) ([]domain.QueuedAction, error)
}
