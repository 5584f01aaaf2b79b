package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hotelops/folio-core/internal/core/domain"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/platform/notify"
)

// Tables whose changes are relevant to an open session's bill.
const (
	chargeTable  = "folio_charges"
	paymentTable = "payments"
)

// reconcilerServiceImpl implements the ReconcilerSvc interface. It is
// level-triggered: any charge or payment change on the session's folio forces
// a full reload which replaces the bill wholesale. Trading bandwidth for the
// absence of merge-conflict logic keeps concurrently-mutating terminals
// convergent without deltas.
type reconcilerServiceImpl struct {
	BaseService
	billing portssvc.BillingReaderSvc
	channel notify.Channel

	mu          sync.Mutex
	attachments map[string][]notify.Subscription
}

// NewReconcilerService creates a new reconciliation listener on the given
// notification channel.
func NewReconcilerService(billing portssvc.BillingReaderSvc, channel notify.Channel) portssvc.ReconcilerSvc {
	return &reconcilerServiceImpl{
		billing:     billing,
		channel:     channel,
		attachments: make(map[string][]notify.Subscription),
	}
}

// Ensure reconcilerServiceImpl implements the ReconcilerSvc interface
var _ portssvc.ReconcilerSvc = (*reconcilerServiceImpl)(nil)

// Attach subscribes a session to charge and payment changes on its folio.
// Exactly one active subscription set per session: attaching again first
// detaches the previous one.
func (s *reconcilerServiceImpl) Attach(ctx context.Context, sessionID string, roomID string, folioID string, apply func(*domain.GuestBill)) error {
	s.Detach(sessionID)

	// Events outlive the attaching request, so reloads must not inherit its
	// cancellation.
	reloadCtx := context.WithoutCancel(ctx)
	handler := func(event notify.Event) {
		s.reload(reloadCtx, sessionID, roomID, event, apply)
	}

	var subs []notify.Subscription
	for _, table := range []string{chargeTable, paymentTable} {
		sub, err := s.channel.Subscribe(ctx, table, folioID, handler)
		if err != nil {
			for _, prev := range subs {
				prev.Unsubscribe()
			}
			return err
		}
		subs = append(subs, sub)
	}

	s.mu.Lock()
	s.attachments[sessionID] = subs
	s.mu.Unlock()
	return nil
}

// Detach tears down the session's subscriptions, if any.
func (s *reconcilerServiceImpl) Detach(sessionID string) {
	s.mu.Lock()
	subs := s.attachments[sessionID]
	delete(s.attachments, sessionID)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// reload fetches a fresh bill and hands it to the session wholesale. A failed
// reload keeps the last good bill; the next event or explicit refresh will
// converge it.
func (s *reconcilerServiceImpl) reload(ctx context.Context, sessionID string, roomID string, event notify.Event, apply func(*domain.GuestBill)) {
	bill, err := s.billing.LoadGuestBill(ctx, roomID)
	if err != nil {
		s.LogWarn(ctx, "Reconciliation reload failed, keeping last bill",
			slog.String("session_id", sessionID),
			slog.String("room_id", roomID),
			slog.String("table", event.Table),
			slog.String("op", string(event.Op)),
			slog.String("error", err.Error()))
		return
	}
	apply(bill)
}
