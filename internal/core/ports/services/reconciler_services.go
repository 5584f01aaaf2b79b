package services

import (
	"context"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// ReconcilerSvc keeps a session's bill converged with concurrently-mutated
// store state. It subscribes to charge and payment change events scoped to
// the session's folio; every event forces a full reload which is handed to
// the apply callback wholesale. Exactly one active subscription per session.
type ReconcilerSvc interface {
	// Attach starts the subscription for a session. Attaching an already
	// attached session first detaches the previous subscription.
	Attach(ctx context.Context, sessionID string, roomID string, folioID string, apply func(*domain.GuestBill)) error

	// Detach tears down the session's subscription, if any.
	Detach(sessionID string)
}
