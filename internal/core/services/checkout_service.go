package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
)

// defaultCompleteTimeout bounds the multi-entity checkout transition.
const defaultCompleteTimeout = 30 * time.Second

// sessionEntry wraps a session with its operation lock. The lock serializes
// state-changing operations on one session so a second trigger cannot re-enter
// while a store call is in flight.
type sessionEntry struct {
	mu      sync.Mutex
	session *domain.CheckoutSession
}

// checkoutServiceImpl implements the CheckoutSvcFacade interface. It owns the
// session registry and drives the pending -> ready -> completed state machine.
type checkoutServiceImpl struct {
	BaseService
	billing         portssvc.BillingReaderSvc
	reconciler      portssvc.ReconcilerSvc
	reservationRepo portsrepo.ReservationRepositoryFacade
	folioRepo       portsrepo.FolioRepositoryFacade
	roomRepo        portsrepo.RoomRepositoryFacade
	auditRepo       portsrepo.AuditWriter
	tenantID        string
	completeTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// CheckoutOption is a functional option for configuring the checkout service
type CheckoutOption func(*checkoutServiceImpl)

// WithCompleteTimeout overrides the bound on the checkout transition.
func WithCompleteTimeout(d time.Duration) CheckoutOption {
	return func(s *checkoutServiceImpl) {
		s.completeTimeout = d
	}
}

// WithReconciler attaches the reconciliation listener used to keep open
// sessions converged with store state.
func WithReconciler(r portssvc.ReconcilerSvc) CheckoutOption {
	return func(s *checkoutServiceImpl) {
		s.reconciler = r
	}
}

// NewCheckoutService creates a new checkout service with the provided options.
func NewCheckoutService(
	billing portssvc.BillingReaderSvc,
	reservationRepo portsrepo.ReservationRepositoryFacade,
	folioRepo portsrepo.FolioRepositoryFacade,
	roomRepo portsrepo.RoomRepositoryFacade,
	auditRepo portsrepo.AuditWriter,
	tenantID string,
	options ...CheckoutOption,
) portssvc.CheckoutSvcFacade {
	svc := &checkoutServiceImpl{
		billing:         billing,
		reservationRepo: reservationRepo,
		folioRepo:       folioRepo,
		roomRepo:        roomRepo,
		auditRepo:       auditRepo,
		tenantID:        tenantID,
		completeTimeout: defaultCompleteTimeout,
		sessions:        make(map[string]*sessionEntry),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure checkoutServiceImpl implements the CheckoutSvcFacade interface
var _ portssvc.CheckoutSvcFacade = (*checkoutServiceImpl)(nil)

// OpenSession loads the room's bill and registers a session for it.
// A session whose balance is already settled opens directly in "ready";
// otherwise it starts "pending".
func (s *checkoutServiceImpl) OpenSession(ctx context.Context, roomID string) (*domain.CheckoutSession, error) {
	bill, err := s.billing.LoadGuestBill(ctx, roomID)
	if err != nil {
		return nil, err
	}

	session := &domain.CheckoutSession{
		SessionID: uuid.NewString(),
		RoomID:    roomID,
		Bill:      bill,
		Payments:  bill.Payments,
		Status:    domain.StatusForBalance(bill.PendingBalance),
	}

	s.mu.Lock()
	s.sessions[session.SessionID] = &sessionEntry{session: session}
	s.mu.Unlock()

	if s.reconciler != nil {
		sessionID := session.SessionID
		if err := s.reconciler.Attach(ctx, sessionID, roomID, bill.FolioID, func(b *domain.GuestBill) {
			s.ReplaceBill(sessionID, b)
		}); err != nil {
			// The session still works without live reconciliation; explicit
			// refreshes after submit/complete remain the fallback.
			s.LogWarn(ctx, "Failed to attach reconciliation subscription",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()))
		}
	}

	s.LogInfo(ctx, "Checkout session opened",
		slog.String("session_id", session.SessionID),
		slog.String("room_id", roomID),
		slog.String("status", string(session.Status)))
	return session, nil
}

// GetSession returns an open session by ID.
func (s *checkoutServiceImpl) GetSession(sessionID string) (*domain.CheckoutSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

// CloseSession tears down a session and its subscription.
func (s *checkoutServiceImpl) CloseSession(sessionID string) {
	if s.reconciler != nil {
		s.reconciler.Detach(sessionID)
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// ReplaceBill swaps the session's bill wholesale and recomputes its status.
// Completed is terminal and never demoted.
func (s *checkoutServiceImpl) ReplaceBill(sessionID string, bill *domain.GuestBill) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.session.Bill = bill
	entry.session.Payments = bill.Payments
	if entry.session.Status != domain.CheckoutCompleted {
		entry.session.Status = domain.StatusForBalance(bill.PendingBalance)
	}
}

// Refresh reloads the bill and recomputes the checkout status. When the
// reservation has already been checked out behind the caller's back (e.g. a
// completion that timed out client-side but committed), the session is
// resolved to completed.
func (s *checkoutServiceImpl) Refresh(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	session := entry.session

	if session.Status == domain.CheckoutCompleted {
		return session, nil
	}

	bill, err := s.billing.LoadGuestBill(ctx, session.RoomID)
	if err == nil {
		session.Bill = bill
		session.Payments = bill.Payments
		session.Status = domain.StatusForBalance(bill.PendingBalance)
		return session, nil
	}

	// No active reservation can mean the checkout committed even though the
	// caller never saw the confirmation. Verify before surfacing the error.
	if errors.Is(err, apperrors.ErrNotFound) && session.Bill != nil {
		reservation, resErr := s.reservationRepo.FindReservationByID(ctx, session.Bill.ReservationID)
		if resErr == nil && reservation != nil && reservation.Status == domain.ReservationCheckedOut {
			now := time.Now().UTC()
			session.Status = domain.CheckoutCompleted
			session.CompletedAt = &now
			return session, nil
		}
	}
	return nil, err
}

// Complete runs the checkout transition: close folio, check the reservation
// out, mark the room dirty, append an audit record, in that fixed order.
// Idempotent keyed by reservation ID; bounded by the configured timeout.
func (s *checkoutServiceImpl) Complete(ctx context.Context, sessionID string, actorID string) (*domain.CheckoutSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	session := entry.session

	if session.Status == domain.CheckoutCompleted {
		// Idempotent: a repeated completion is a successful no-op.
		return session, nil
	}
	if session.Status != domain.CheckoutReady {
		return nil, fmt.Errorf("checkout requires a settled balance (status %s): %w", session.Status, apperrors.ErrValidation)
	}
	if session.Bill == nil {
		return nil, fmt.Errorf("session %s has no bill: %w", sessionID, apperrors.ErrValidation)
	}

	opCtx, cancel := context.WithTimeout(ctx, s.completeTimeout)
	defer cancel()

	completed, err := s.commitCheckout(opCtx, session, actorID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || opCtx.Err() != nil {
			// Commit state is unknown; the session stays ready and the
			// caller must refresh and verify before retrying.
			s.LogWarn(ctx, "Checkout transition timed out",
				slog.String("session_id", sessionID),
				slog.String("reservation_id", session.Bill.ReservationID))
			return nil, fmt.Errorf("%w: checkout commit state unknown, refresh and verify", apperrors.ErrTimeout)
		}
		return nil, err
	}

	now := time.Now().UTC()
	session.Status = domain.CheckoutCompleted
	session.CompletedAt = &now
	session.CompletedBy = actorID

	if completed {
		s.LogInfo(ctx, "Checkout completed",
			slog.String("session_id", sessionID),
			slog.String("reservation_id", session.Bill.ReservationID),
			slog.String("room_id", session.RoomID))
	}
	return session, nil
}

// commitCheckout applies the checkout steps, skipping any that a previous
// partially-failed attempt already committed. It returns true when this call
// performed the reservation transition (i.e. was not a pure no-op).
func (s *checkoutServiceImpl) commitCheckout(ctx context.Context, session *domain.CheckoutSession, actorID string) (bool, error) {
	reservationID := session.Bill.ReservationID

	// Re-validate at commit time: cached client state is never trusted.
	reservation, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return false, err
	}
	if reservation == nil {
		return false, fmt.Errorf("reservation %s: %w", reservationID, apperrors.ErrNotFound)
	}

	switch reservation.Status {
	case domain.ReservationCheckedIn, domain.ReservationCheckedOut:
		// checked_out means a previous attempt got at least past the
		// reservation step; fall through and finish the remaining steps.
	default:
		return false, fmt.Errorf("reservation %s is %s, not checked in: %w",
			reservationID, reservation.Status, apperrors.ErrValidation)
	}

	now := time.Now().UTC()

	// 1. Close the folio.
	folio, err := s.folioRepo.FindFolioByID(ctx, session.Bill.FolioID)
	if err != nil {
		return false, err
	}
	if folio == nil {
		return false, fmt.Errorf("folio %s: %w", session.Bill.FolioID, apperrors.ErrNotFound)
	}
	if folio.Status == domain.FolioOpen {
		if err := s.folioRepo.CloseFolio(ctx, folio.FolioID, actorID, now); err != nil {
			return false, fmt.Errorf("%w: folio could not be closed", apperrors.ErrPersistence)
		}
	}

	// 2. Transition the reservation.
	performed := false
	if reservation.Status != domain.ReservationCheckedOut {
		if err := s.reservationRepo.UpdateReservationStatus(ctx, reservationID, domain.ReservationCheckedOut, actorID, now); err != nil {
			return false, fmt.Errorf("%w: reservation could not be checked out", apperrors.ErrPersistence)
		}
		performed = true
	}

	// 3. Mark the room dirty and clear its reservation pointer.
	if performed {
		if err := s.roomRepo.UpdateRoomStatus(ctx, session.RoomID, domain.RoomDirty, actorID, now); err != nil {
			return false, fmt.Errorf("%w: room status could not be updated", apperrors.ErrPersistence)
		}
		if err := s.roomRepo.SetCurrentReservation(ctx, session.RoomID, "", actorID, now); err != nil {
			s.LogWarn(ctx, "Failed to clear room reservation pointer",
				slog.String("room_id", session.RoomID),
				slog.String("error", err.Error()))
		}
	}

	// 4. Append the audit record only when this call did the transition,
	// so retries never produce duplicate rows.
	if performed {
		audit := domain.AuditRecord{
			AuditID:    uuid.NewString(),
			TenantID:   s.tenantID,
			Action:     "checkout.completed",
			EntityType: "reservation",
			EntityID:   reservationID,
			Detail:     fmt.Sprintf("room %s checked out, folio %s closed", session.Bill.RoomNumber, folio.FolioNumber),
			ActorID:    actorID,
			CreatedAt:  now,
		}
		if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
			s.LogError(ctx, err, "Failed to append checkout audit record",
				slog.String("reservation_id", reservationID))
		}
	}

	return performed, nil
}
