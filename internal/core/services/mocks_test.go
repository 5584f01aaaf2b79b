package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hotelops/folio-core/internal/core/domain"
	"github.com/hotelops/folio-core/internal/dto"
)

// Shared repository and service mocks used across the service test suites.

// MockReservationRepository is a mock type for the ReservationRepositoryFacade interface
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindActiveReservationByRoomID(ctx context.Context, roomID string) (*domain.Reservation, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) SaveReservation(ctx context.Context, reservation domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, reservationID, status, updatedBy, now)
	return args.Error(0)
}

// MockRoomRepository is a mock type for the RoomRepositoryFacade interface
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepository) UpdateRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, roomID, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockRoomRepository) SetCurrentReservation(ctx context.Context, roomID string, reservationID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, roomID, reservationID, updatedBy, now)
	return args.Error(0)
}

// MockFolioRepository is a mock type for the FolioRepositoryFacade interface
type MockFolioRepository struct {
	mock.Mock
}

func (m *MockFolioRepository) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}

func (m *MockFolioRepository) FindOpenFolioByReservationID(ctx context.Context, reservationID string) (*domain.Folio, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}

func (m *MockFolioRepository) GetOrCreateFolio(ctx context.Context, reservationID string, tenantID string) (string, error) {
	args := m.Called(ctx, reservationID, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockFolioRepository) CloseFolio(ctx context.Context, folioID string, closedBy string, now time.Time) error {
	args := m.Called(ctx, folioID, closedBy, now)
	return args.Error(0)
}

// MockChargeRepository is a mock type for the ChargeRepositoryFacade interface
type MockChargeRepository struct {
	mock.Mock
}

func (m *MockChargeRepository) ListChargesByFolioID(ctx context.Context, folioID string) ([]domain.Charge, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Charge), args.Error(1)
}

func (m *MockChargeRepository) SaveCharge(ctx context.Context, charge domain.Charge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

// MockPaymentRepository is a mock type for the PaymentRepositoryFacade interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) ListPaymentsByFolioID(ctx context.Context, folioID string) ([]domain.Payment, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// MockAuditRepository is a mock type for the AuditRepositoryFacade interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) ListAuditByEntity(ctx context.Context, entityType string, entityID string) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockBillingService is a mock type for the BillingSvcFacade interface
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) LoadGuestBill(ctx context.Context, roomID string) (*domain.GuestBill, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestBill), args.Error(1)
}

func (m *MockBillingService) PostCharge(ctx context.Context, roomID string, req dto.PostChargeRequest, actorID string) (*domain.GuestBill, error) {
	args := m.Called(ctx, roomID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuestBill), args.Error(1)
}

// MockCheckoutService is a mock type for the CheckoutSvcFacade interface
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) OpenSession(ctx context.Context, roomID string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutService) GetSession(sessionID string) (*domain.CheckoutSession, bool) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Bool(1)
}

func (m *MockCheckoutService) CloseSession(sessionID string) {
	m.Called(sessionID)
}

func (m *MockCheckoutService) Refresh(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutService) Complete(ctx context.Context, sessionID string, actorID string) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, sessionID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutService) ReplaceBill(sessionID string, bill *domain.GuestBill) {
	m.Called(sessionID, bill)
}
