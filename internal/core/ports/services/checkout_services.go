package services

import (
	"context"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// CheckoutSessionSvc manages the lifecycle of checkout sessions. Sessions are
// explicit owned state scoped to a room selection; every operation takes the
// session handle rather than relying on module-level singletons.
type CheckoutSessionSvc interface {
	// OpenSession loads the room's bill, derives the initial checkout status
	// and attaches the reconciliation subscription. A session whose balance
	// is already settled opens directly in the ready state.
	OpenSession(ctx context.Context, roomID string) (*domain.CheckoutSession, error)

	// GetSession returns an open session by its ID.
	GetSession(sessionID string) (*domain.CheckoutSession, bool)

	// CloseSession tears the session down, including its subscription.
	CloseSession(sessionID string)
}

// CheckoutMachineSvc drives the checkout state machine for a session.
type CheckoutMachineSvc interface {
	// Refresh recomputes the checkout status from the latest guest bill.
	// It performs no writes. Completed is terminal.
	Refresh(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)

	// Complete closes the folio, checks the reservation out, marks the room
	// dirty and appends an audit record, in that fixed order. It re-validates
	// preconditions at commit time and is idempotent keyed by reservation ID.
	// The whole transition is bounded by a timeout; on expiry the session
	// stays ready and the caller must Refresh before retrying.
	Complete(ctx context.Context, sessionID string, actorID string) (*domain.CheckoutSession, error)
}

// BillReplacer lets collaborators swap a session's bill wholesale after a
// reload. Level-triggered: the new bill replaces the old one entirely.
type BillReplacer interface {
	ReplaceBill(sessionID string, bill *domain.GuestBill)
}

// CheckoutSvcFacade combines all checkout-related service interfaces
type CheckoutSvcFacade interface {
	CheckoutSessionSvc
	CheckoutMachineSvc
	BillReplacer
}
