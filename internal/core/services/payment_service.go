package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
)

// paymentServiceImpl implements the PaymentSvcFacade interface. Capture is
// synchronous: a submitted payment is persisted as completed; gateway
// settlement is an external collaborator.
type paymentServiceImpl struct {
	BaseService
	billing     portssvc.BillingReaderSvc
	checkout    portssvc.CheckoutSvcFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
	auditRepo   portsrepo.AuditWriter
	tenantID    string
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	billing portssvc.BillingReaderSvc,
	checkout portssvc.CheckoutSvcFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	auditRepo portsrepo.AuditWriter,
	tenantID string,
) portssvc.PaymentSvcFacade {
	return &paymentServiceImpl{
		billing:     billing,
		checkout:    checkout,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		tenantID:    tenantID,
	}
}

// Ensure paymentServiceImpl implements the PaymentSvcFacade interface
var _ portssvc.PaymentSvcFacade = (*paymentServiceImpl)(nil)

// SubmitPayment validates, canonicalizes and persists a payment against the
// session's folio, then reloads the bill so both the local path and the
// notification path converge on the same store state.
func (s *paymentServiceImpl) SubmitPayment(ctx context.Context, sessionID string, amount int64, method string, actorID string) (*domain.Payment, error) {
	// Validation happens before any store call and is never auto-retried.
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive: %w", apperrors.ErrValidation)
	}
	canonical, ok := domain.CanonicalMethod(method)
	if !ok {
		return nil, fmt.Errorf("unrecognized payment method %q: %w", method, apperrors.ErrValidation)
	}

	session, found := s.checkout.GetSession(sessionID)
	if !found {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
	}
	if session.Status == domain.CheckoutCompleted {
		return nil, fmt.Errorf("session is already completed: %w", apperrors.ErrValidation)
	}

	// Re-resolve the folio through the aggregator instead of trusting the
	// cached bill; the direct reservation reference may have moved on.
	bill, err := s.billing.LoadGuestBill(ctx, session.RoomID)
	if err != nil {
		return nil, err
	}

	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		FolioID:     bill.FolioID,
		Amount:      amount,
		Method:      canonical,
		Status:      domain.PaymentCompleted,
		ProcessedBy: actorID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		// Raw constraint violations never reach the UI; the mapped error
		// carries a user-presentable message and the log keeps the cause.
		s.LogError(ctx, err, "Failed to persist payment",
			slog.String("folio_id", bill.FolioID),
			slog.Int64("amount", amount),
			slog.String("method", string(canonical)))
		return nil, fmt.Errorf("%w: payment could not be recorded", apperrors.ErrPersistence)
	}

	audit := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		TenantID:   s.tenantID,
		Action:     "payment.submitted",
		EntityType: "folio",
		EntityID:   bill.FolioID,
		Detail:     fmt.Sprintf("%s payment of %d captured", canonical, amount),
		ActorID:    actorID,
		CreatedAt:  payment.CreatedAt,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
		// The payment is committed; a missing audit row is logged, not fatal.
		s.LogError(ctx, err, "Failed to append payment audit record",
			slog.String("folio_id", bill.FolioID))
	}

	// Trigger the ledger reload. A failed reload does not undo the capture;
	// the reconciliation listener or the next explicit refresh converges it.
	fresh, err := s.billing.LoadGuestBill(ctx, session.RoomID)
	if err != nil {
		s.LogWarn(ctx, "Bill reload after payment failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
		return &payment, nil
	}
	s.checkout.ReplaceBill(sessionID, fresh)

	s.LogInfo(ctx, "Payment submitted",
		slog.String("session_id", sessionID),
		slog.String("payment_id", payment.PaymentID),
		slog.Int64("amount", amount),
		slog.String("method", string(canonical)))
	return &payment, nil
}
