package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/dto"
)

// billingServiceImpl implements the BillingSvcFacade interface. It is the
// ledger aggregator: it composes the authoritative guest bill from folio,
// charge and payment state, always trusting the store's aggregates over any
// client-computed value.
type billingServiceImpl struct {
	BaseService
	roomRepo        portsrepo.RoomRepositoryFacade
	reservationRepo portsrepo.ReservationRepositoryFacade
	folioRepo       portsrepo.FolioRepositoryFacade
	chargeRepo      portsrepo.ChargeRepositoryFacade
	paymentRepo     portsrepo.PaymentRepositoryFacade
	auditRepo       portsrepo.AuditWriter
	tenantID        string
}

// NewBillingService creates a new billing service.
func NewBillingService(
	roomRepo portsrepo.RoomRepositoryFacade,
	reservationRepo portsrepo.ReservationRepositoryFacade,
	folioRepo portsrepo.FolioRepositoryFacade,
	chargeRepo portsrepo.ChargeRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	auditRepo portsrepo.AuditWriter,
	tenantID string,
) portssvc.BillingSvcFacade {
	return &billingServiceImpl{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		folioRepo:       folioRepo,
		chargeRepo:      chargeRepo,
		paymentRepo:     paymentRepo,
		auditRepo:       auditRepo,
		tenantID:        tenantID,
	}
}

// Ensure billingServiceImpl implements the BillingSvcFacade interface
var _ portssvc.BillingSvcFacade = (*billingServiceImpl)(nil)

// resolveActiveReservation finds the checked-in reservation for a room.
// The room's direct reservation pointer is preferred; write propagation to
// it can lag, so a stale or absent pointer falls back to a status-filtered,
// most-recent-first scan.
func (s *billingServiceImpl) resolveActiveReservation(ctx context.Context, room *domain.Room) (*domain.Reservation, error) {
	if room.CurrentReservationID != "" {
		reservation, err := s.reservationRepo.FindReservationByID(ctx, room.CurrentReservationID)
		if err == nil && reservation != nil && reservation.IsActive() {
			return reservation, nil
		}
		if err != nil {
			s.LogWarn(ctx, "Direct reservation reference unresolvable, falling back to scan",
				slog.String("room_id", room.RoomID),
				slog.String("reservation_id", room.CurrentReservationID),
				slog.String("error", err.Error()))
		}
	}

	reservation, err := s.reservationRepo.FindActiveReservationByRoomID(ctx, room.RoomID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, fmt.Errorf("no checked-in reservation for room %s: %w", room.RoomID, apperrors.ErrNotFound)
	}
	return reservation, nil
}

// LoadGuestBill composes the guest bill for a room. See BillingReaderSvc.
func (s *billingServiceImpl) LoadGuestBill(ctx context.Context, roomID string) (*domain.GuestBill, error) {
	room, err := s.roomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
	}

	reservation, err := s.resolveActiveReservation(ctx, room)
	if err != nil {
		return nil, err
	}

	folioID, err := s.folioRepo.GetOrCreateFolio(ctx, reservation.ReservationID, s.tenantID)
	if err != nil {
		return nil, fmt.Errorf("get_or_create_folio for reservation %s: %w", reservation.ReservationID, err)
	}

	// The folio aggregate, charges and payments are independent reads;
	// fetch them in parallel. A failure on any leg fails the whole load:
	// partial data is never surfaced as a complete bill.
	var (
		folio    *domain.Folio
		charges  []domain.Charge
		payments []domain.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folio, err = s.folioRepo.FindFolioByID(gctx, folioID)
		if err == nil && folio == nil {
			return fmt.Errorf("folio %s vanished after get_or_create: %w", folioID, apperrors.ErrNotFound)
		}
		return err
	})
	g.Go(func() error {
		var err error
		charges, err = s.chargeRepo.ListChargesByFolioID(gctx, folioID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.paymentRepo.ListPaymentsByFolioID(gctx, folioID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Guest bill aggregation failed",
			slog.String("room_id", roomID),
			slog.String("folio_id", folioID))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAggregation, err)
	}

	return s.composeBill(room, reservation, folio, charges, payments), nil
}

// composeBill maps store state to a GuestBill. Totals and balance come from
// the folio's trigger-maintained aggregates, never from summing line items:
// the store may apply business rules (e.g. tax) unknown to this core.
func (s *billingServiceImpl) composeBill(room *domain.Room, reservation *domain.Reservation, folio *domain.Folio, charges []domain.Charge, payments []domain.Payment) *domain.GuestBill {
	return &domain.GuestBill{
		FolioID:        folio.FolioID,
		FolioNumber:    folio.FolioNumber,
		ReservationID:  reservation.ReservationID,
		RoomID:         room.RoomID,
		RoomNumber:     room.RoomNumber,
		GuestName:      reservation.GuestName,
		Charges:        charges,
		Payments:       payments,
		Subtotal:       folio.TotalCharges,
		Tax:            folio.TaxAmount,
		Total:          folio.TotalCharges + folio.TaxAmount,
		TotalPayments:  folio.TotalPayments,
		PendingBalance: folio.Balance,
		PaymentStatus:  domain.DerivePaymentStatus(folio.Balance, folio.TotalPayments),
	}
}

// validChargeTypes is the set of accepted charge postings.
var validChargeTypes = map[domain.ChargeType]struct{}{
	domain.ChargeRoom:       {},
	domain.ChargeService:    {},
	domain.ChargeMinibar:    {},
	domain.ChargeLaundry:    {},
	domain.ChargeMisc:       {},
	domain.ChargeAdjustment: {},
}

// PostCharge appends a charge to the room's open folio. See BillingWriterSvc.
func (s *billingServiceImpl) PostCharge(ctx context.Context, roomID string, req dto.PostChargeRequest, actorID string) (*domain.GuestBill, error) {
	chargeType := domain.ChargeType(req.ChargeType)
	if _, ok := validChargeTypes[chargeType]; !ok {
		return nil, fmt.Errorf("unknown charge type %q: %w", req.ChargeType, apperrors.ErrValidation)
	}
	if req.Amount == 0 {
		return nil, fmt.Errorf("charge amount must be non-zero: %w", apperrors.ErrValidation)
	}
	if req.Amount < 0 && chargeType != domain.ChargeAdjustment {
		return nil, fmt.Errorf("negative amounts are only valid for adjustments: %w", apperrors.ErrValidation)
	}

	room, err := s.roomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
	}
	reservation, err := s.resolveActiveReservation(ctx, room)
	if err != nil {
		return nil, err
	}
	folioID, err := s.folioRepo.GetOrCreateFolio(ctx, reservation.ReservationID, s.tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	charge := domain.Charge{
		ChargeID:    uuid.NewString(),
		FolioID:     folioID,
		ChargeType:  chargeType,
		Description: req.Description,
		Amount:      req.Amount,
		PostedBy:    actorID,
		CreatedAt:   now,
	}
	if err := s.chargeRepo.SaveCharge(ctx, charge); err != nil {
		s.LogError(ctx, err, "Failed to post charge",
			slog.String("folio_id", folioID),
			slog.String("charge_type", string(chargeType)))
		return nil, fmt.Errorf("%w: charge could not be recorded", apperrors.ErrPersistence)
	}

	audit := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		TenantID:   s.tenantID,
		Action:     "charge.posted",
		EntityType: "folio",
		EntityID:   folioID,
		Detail:     fmt.Sprintf("%s charge of %d posted", chargeType, req.Amount),
		ActorID:    actorID,
		CreatedAt:  now,
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, audit); err != nil {
		// The charge is committed; a missing audit row is logged, not fatal.
		s.LogError(ctx, err, "Failed to append audit record for charge",
			slog.String("folio_id", folioID))
	}

	return s.LoadGuestBill(ctx, roomID)
}
