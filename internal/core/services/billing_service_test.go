package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	"github.com/hotelops/folio-core/internal/core/services"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/dto"
)

const testTenantID = "tenant-1"

type BillingServiceTestSuite struct {
	suite.Suite
	mockRoomRepo        *MockRoomRepository
	mockReservationRepo *MockReservationRepository
	mockFolioRepo       *MockFolioRepository
	mockChargeRepo      *MockChargeRepository
	mockPaymentRepo     *MockPaymentRepository
	mockAuditRepo       *MockAuditRepository
	service             portssvc.BillingSvcFacade
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.mockRoomRepo = new(MockRoomRepository)
	suite.mockReservationRepo = new(MockReservationRepository)
	suite.mockFolioRepo = new(MockFolioRepository)
	suite.mockChargeRepo = new(MockChargeRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewBillingService(
		suite.mockRoomRepo,
		suite.mockReservationRepo,
		suite.mockFolioRepo,
		suite.mockChargeRepo,
		suite.mockPaymentRepo,
		suite.mockAuditRepo,
		testTenantID,
	)
}

// billFixture returns a room, its checked-in reservation and an open folio
// wired together by direct reference.
func (suite *BillingServiceTestSuite) billFixture() (*domain.Room, *domain.Reservation, *domain.Folio) {
	reservation := &domain.Reservation{
		ReservationID: uuid.NewString(),
		TenantID:      testTenantID,
		GuestName:     "Ada Wong",
		Status:        domain.ReservationCheckedIn,
	}
	room := &domain.Room{
		RoomID:               uuid.NewString(),
		TenantID:             testTenantID,
		RoomNumber:           "101",
		Status:               domain.RoomOccupied,
		CurrentReservationID: reservation.ReservationID,
	}
	reservation.RoomID = room.RoomID
	folio := &domain.Folio{
		FolioID:       uuid.NewString(),
		FolioNumber:   "F-2026-0042",
		ReservationID: reservation.ReservationID,
		TenantID:      testTenantID,
		Status:        domain.FolioOpen,
		TotalCharges:  10000,
		TaxAmount:     1800,
		TotalPayments: 5000,
		Balance:       6800,
	}
	return room, reservation, folio
}

func (suite *BillingServiceTestSuite) TestLoadGuestBill_Success() {
	ctx := context.Background()
	room, reservation, folio := suite.billFixture()
	charges := []domain.Charge{
		{ChargeID: uuid.NewString(), FolioID: folio.FolioID, ChargeType: domain.ChargeRoom, Amount: 10000},
	}
	payments := []domain.Payment{
		{PaymentID: uuid.NewString(), FolioID: folio.FolioID, Amount: 5000, Method: domain.MethodCash},
	}

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil).Once()
	suite.mockReservationRepo.On("FindReservationByID", ctx, reservation.ReservationID).Return(reservation, nil).Once()
	suite.mockFolioRepo.On("GetOrCreateFolio", ctx, reservation.ReservationID, testTenantID).Return(folio.FolioID, nil).Once()
	// The three bill legs run on the errgroup's derived context.
	suite.mockFolioRepo.On("FindFolioByID", mock.Anything, folio.FolioID).Return(folio, nil).Once()
	suite.mockChargeRepo.On("ListChargesByFolioID", mock.Anything, folio.FolioID).Return(charges, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByFolioID", mock.Anything, folio.FolioID).Return(payments, nil).Once()

	bill, err := suite.service.LoadGuestBill(ctx, room.RoomID)

	suite.Require().NoError(err)
	suite.Require().NotNil(bill)
	suite.Equal(folio.FolioID, bill.FolioID)
	suite.Equal(reservation.ReservationID, bill.ReservationID)
	suite.Equal("101", bill.RoomNumber)
	suite.Equal("Ada Wong", bill.GuestName)
	suite.Equal(charges, bill.Charges)
	suite.Equal(payments, bill.Payments)
	suite.Equal(int64(10000), bill.Subtotal)
	suite.Equal(int64(1800), bill.Tax)
	suite.Equal(int64(11800), bill.Total)
	suite.Equal(int64(6800), bill.PendingBalance)
	suite.Equal(domain.BillPartial, bill.PaymentStatus)

	suite.mockRoomRepo.AssertExpectations(suite.T())
	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestLoadGuestBill_TotalsComeFromFolioAggregates() {
	ctx := context.Background()
	room, reservation, folio := suite.billFixture()
	// Line items that do NOT sum to the folio aggregates: the store may apply
	// rules (tax, package pricing) this core does not know. The aggregates win.
	charges := []domain.Charge{
		{ChargeID: uuid.NewString(), FolioID: folio.FolioID, ChargeType: domain.ChargeMinibar, Amount: 1200},
	}

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil).Once()
	suite.mockReservationRepo.On("FindReservationByID", ctx, reservation.ReservationID).Return(reservation, nil).Once()
	suite.mockFolioRepo.On("GetOrCreateFolio", ctx, reservation.ReservationID, testTenantID).Return(folio.FolioID, nil).Once()
	suite.mockFolioRepo.On("FindFolioByID", mock.Anything, folio.FolioID).Return(folio, nil).Once()
	suite.mockChargeRepo.On("ListChargesByFolioID", mock.Anything, folio.FolioID).Return(charges, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByFolioID", mock.Anything, folio.FolioID).Return([]domain.Payment{}, nil).Once()

	bill, err := suite.service.LoadGuestBill(ctx, room.RoomID)

	suite.Require().NoError(err)
	suite.Equal(folio.TotalCharges, bill.Subtotal)
	suite.Equal(folio.TotalCharges+folio.TaxAmount, bill.Total)
	suite.Equal(folio.Balance, bill.PendingBalance)
	suite.NotEqual(int64(1200), bill.Subtotal)
}

func (suite *BillingServiceTestSuite) TestLoadGuestBill_SettledBalanceIsPaid() {
	ctx := context.Background()
	room, reservation, folio := suite.billFixture()
	folio.TotalPayments = 11800
	folio.Balance = 0

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil).Once()
	suite.mockReservationRepo.On("FindReservationByID", ctx, reservation.ReservationID).Return(reservation, nil).Once()
	suite.mockFolioRepo.On("GetOrCreateFolio", ctx, reservation.ReservationID, testTenantID).Return(folio.FolioID, nil).Once()
	suite.mockFolioRepo.On("FindFolioByID", mock.Anything, folio.FolioID).Return(folio, nil).Once()
	suite.mockChargeRepo.On("ListChargesByFolioID", mock.Anything, folio.FolioID).Return([]domain.Charge{}, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByFolioID", mock.Anything, folio.FolioID).Return([]domain.Payment{}, nil).Once()

	bill, err := suite.service.LoadGuestBill(ctx, room.RoomID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillPaid, bill.PaymentStatus)
}

func (suite *BillingServiceTestSuite) TestLoadGuestBill_StaleDirectReferenceFallsBack() {
	ctx := context.Background()
	room, _, folio := suite.billFixture()
	// The direct pointer references a reservation that already checked out;
	// the fallback scan finds the real occupant.
	staleReservation := &domain.Reservation{
		ReservationID: room.CurrentReservationID,
		Status:        domain.ReservationCheckedOut,
	}
	activeReservation := &domain.Reservation{
		ReservationID: uuid.NewString(),
		RoomID:        room.RoomID,
		GuestName:     "Leon Kennedy",
		Status:        domain.ReservationCheckedIn,
	}

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil).Once()
	suite.mockReservationRepo.On("FindReservationByID", ctx, staleReservation.ReservationID).Return(staleReservation, nil).Once()
	suite.mockReservationRepo.On("FindActiveReservationByRoomID", ctx, room.RoomID).Return(activeReservation, nil).Once()
	suite.mockFolioRepo.On("GetOrCreateFolio", ctx, activeReservation.ReservationID, testTenantID).Return(folio.FolioID, nil).Once()
	suite.mockFolioRepo.On("FindFolioByID", mock.Anything, folio.FolioID).Return(folio, nil).Once()
	suite.mockChargeRepo.On("ListChargesByFolioID", mock.Anything, folio.FolioID).Return([]domain.Charge{}, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByFolioID", mock.Anything, folio.FolioID).Return([]domain.Payment{}, nil).Once()

	bill, err := suite.service.LoadGuestBill(ctx, room.RoomID)

	suite.Require().NoError(err)
	suite.Equal(activeReservation.ReservationID, bill.ReservationID)
	suite.Equal("Leon Kennedy", bill.GuestName)
	suite.mockReservationRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestLoadGuestBill_NoActiveReservation() {
	ctx := context.Background()
	room, _, _ := suite.billFixture()
	room.CurrentReservationID = ""

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil).Once()
	suite.mockReservationRepo.On("FindActiveReservationByRoomID", ctx, room.RoomID).Return(nil, nil).Once()

	bill, err := suite.service.LoadGuestBill(ctx, room.RoomID)

	suite.Require().Error(err)
	suite.Nil(bill)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFolioRepo.AssertNotCalled(suite.T(), "GetOrCreateFolio", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestLoadGuestBill_RoomNotFound() {
	ctx := context.Background()
	roomID := uuid.NewString()

	suite.mockRoomRepo.On("FindRoomByID", ctx, roomID).Return(nil, nil).Once()

	bill, err := suite.service.LoadGuestBill(ctx, roomID)

	suite.Require().Error(err)
	suite.Nil(bill)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BillingServiceTestSuite) TestLoadGuestBill_PartialFetchFailsWholeLoad() {
	ctx := context.Background()
	room, reservation, folio := suite.billFixture()

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil).Once()
	suite.mockReservationRepo.On("FindReservationByID", ctx, reservation.ReservationID).Return(reservation, nil).Once()
	suite.mockFolioRepo.On("GetOrCreateFolio", ctx, reservation.ReservationID, testTenantID).Return(folio.FolioID, nil).Once()
	suite.mockFolioRepo.On("FindFolioByID", mock.Anything, folio.FolioID).Return(folio, nil).Maybe()
	suite.mockChargeRepo.On("ListChargesByFolioID", mock.Anything, folio.FolioID).Return(nil, assert.AnError).Once()
	suite.mockPaymentRepo.On("ListPaymentsByFolioID", mock.Anything, folio.FolioID).Return([]domain.Payment{}, nil).Maybe()

	bill, err := suite.service.LoadGuestBill(ctx, room.RoomID)

	// One leg failing must never surface a partial bill.
	suite.Require().Error(err)
	suite.Nil(bill)
	suite.ErrorIs(err, apperrors.ErrAggregation)
}

func (suite *BillingServiceTestSuite) TestPostCharge_Success() {
	ctx := context.Background()
	room, reservation, folio := suite.billFixture()
	actorID := uuid.NewString()
	req := dto.PostChargeRequest{ChargeType: "minibar", Description: "Sparkling water", Amount: 700}

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil)
	suite.mockReservationRepo.On("FindReservationByID", ctx, reservation.ReservationID).Return(reservation, nil)
	suite.mockFolioRepo.On("GetOrCreateFolio", ctx, reservation.ReservationID, testTenantID).Return(folio.FolioID, nil)
	suite.mockChargeRepo.On("SaveCharge", ctx, mock.MatchedBy(func(c domain.Charge) bool {
		return c.FolioID == folio.FolioID &&
			c.ChargeType == domain.ChargeMinibar &&
			c.Amount == 700 &&
			c.PostedBy == actorID &&
			c.ChargeID != ""
	})).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditRecord", ctx, mock.MatchedBy(func(r domain.AuditRecord) bool {
		return r.Action == "charge.posted" && r.EntityID == folio.FolioID && r.ActorID == actorID
	})).Return(nil).Once()
	// Reload after posting.
	suite.mockFolioRepo.On("FindFolioByID", mock.Anything, folio.FolioID).Return(folio, nil).Once()
	suite.mockChargeRepo.On("ListChargesByFolioID", mock.Anything, folio.FolioID).Return([]domain.Charge{}, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByFolioID", mock.Anything, folio.FolioID).Return([]domain.Payment{}, nil).Once()

	bill, err := suite.service.PostCharge(ctx, room.RoomID, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(bill)
	suite.mockChargeRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestPostCharge_UnknownChargeType() {
	ctx := context.Background()
	req := dto.PostChargeRequest{ChargeType: "spa", Description: "Massage", Amount: 5000}

	bill, err := suite.service.PostCharge(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(bill)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRoomRepo.AssertNotCalled(suite.T(), "FindRoomByID", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestPostCharge_NegativeOnlyForAdjustments() {
	ctx := context.Background()
	req := dto.PostChargeRequest{ChargeType: "minibar", Description: "Refund", Amount: -700}

	bill, err := suite.service.PostCharge(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(bill)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BillingServiceTestSuite) TestPostCharge_SaveErrorMapped() {
	ctx := context.Background()
	room, reservation, folio := suite.billFixture()
	req := dto.PostChargeRequest{ChargeType: "laundry", Description: "Pressing", Amount: 1500}

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil).Once()
	suite.mockReservationRepo.On("FindReservationByID", ctx, reservation.ReservationID).Return(reservation, nil).Once()
	suite.mockFolioRepo.On("GetOrCreateFolio", ctx, reservation.ReservationID, testTenantID).Return(folio.FolioID, nil).Once()
	suite.mockChargeRepo.On("SaveCharge", ctx, mock.AnythingOfType("domain.Charge")).Return(assert.AnError).Once()

	bill, err := suite.service.PostCharge(ctx, room.RoomID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(bill)
	suite.ErrorIs(err, apperrors.ErrPersistence)
	suite.NotContains(err.Error(), assert.AnError.Error())
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "SaveAuditRecord", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestPostCharge_AuditFailureIsNotFatal() {
	ctx := context.Background()
	room, reservation, folio := suite.billFixture()
	req := dto.PostChargeRequest{ChargeType: "service", Description: "Room service", Amount: 2500}

	suite.mockRoomRepo.On("FindRoomByID", ctx, room.RoomID).Return(room, nil)
	suite.mockReservationRepo.On("FindReservationByID", ctx, reservation.ReservationID).Return(reservation, nil)
	suite.mockFolioRepo.On("GetOrCreateFolio", ctx, reservation.ReservationID, testTenantID).Return(folio.FolioID, nil)
	suite.mockChargeRepo.On("SaveCharge", ctx, mock.AnythingOfType("domain.Charge")).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).Return(assert.AnError).Once()
	suite.mockFolioRepo.On("FindFolioByID", mock.Anything, folio.FolioID).Return(folio, nil).Once()
	suite.mockChargeRepo.On("ListChargesByFolioID", mock.Anything, folio.FolioID).Return([]domain.Charge{}, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByFolioID", mock.Anything, folio.FolioID).Return([]domain.Payment{}, nil).Once()

	bill, err := suite.service.PostCharge(ctx, room.RoomID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(bill)
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}
