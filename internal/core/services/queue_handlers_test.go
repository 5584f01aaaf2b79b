package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/core/services"
	"github.com/hotelops/folio-core/internal/repositories/database/sqlite"
)

// The handler suite replays queued actions through the real queue service so
// delivery, idempotent absorption and removal are covered end to end.
type QueueHandlersTestSuite struct {
	suite.Suite
	mockReservationRepo *MockReservationRepository
	mockRoomRepo        *MockRoomRepository
	mockChargeRepo      *MockChargeRepository
	mockPaymentRepo     *MockPaymentRepository
	queue               portssvc.QueueSvcFacade
}

func (suite *QueueHandlersTestSuite) SetupTest() {
	suite.mockReservationRepo = new(MockReservationRepository)
	suite.mockRoomRepo = new(MockRoomRepository)
	suite.mockChargeRepo = new(MockChargeRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)

	store, err := sqlite.NewQueueRepository(filepath.Join(suite.T().TempDir(), "queue.db"))
	suite.Require().NoError(err)
	queue, err := services.NewQueueService(context.Background(), store,
		services.WithRetryBackoff(time.Millisecond, 2*time.Millisecond))
	suite.Require().NoError(err)

	services.RegisterDefaultHandlers(queue, portsrepo.RepositoryProvider{
		ReservationRepo: suite.mockReservationRepo,
		RoomRepo:        suite.mockRoomRepo,
		ChargeRepo:      suite.mockChargeRepo,
		PaymentRepo:     suite.mockPaymentRepo,
		FolioRepo:       new(MockFolioRepository),
		AuditRepo:       new(MockAuditRepository),
	})
	suite.queue = queue
}

func (suite *QueueHandlersTestSuite) replayOne() {
	count, err := suite.queue.RetryQueue(context.Background())
	suite.Require().NoError(err)
	suite.Require().Equal(1, count)

	pending, err := suite.queue.Pending(context.Background())
	suite.Require().NoError(err)
	suite.Empty(pending)
}

func (suite *QueueHandlersTestSuite) TestCheckIn_Delivered() {
	ctx := context.Background()
	reservationID := uuid.NewString()
	roomID := uuid.NewString()
	actorID := uuid.NewString()
	payload, _ := json.Marshal(map[string]string{"roomID": roomID, "actorID": actorID})

	suite.mockReservationRepo.On("FindReservationByID", mock.Anything, reservationID).Return(&domain.Reservation{
		ReservationID: reservationID,
		Status:        domain.ReservationConfirmed,
	}, nil).Once()
	suite.mockReservationRepo.On("UpdateReservationStatus", mock.Anything, reservationID, domain.ReservationCheckedIn, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockRoomRepo.On("SetCurrentReservation", mock.Anything, roomID, reservationID, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockRoomRepo.On("UpdateRoomStatus", mock.Anything, roomID, domain.RoomOccupied, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.queue.Enqueue(ctx, domain.ActionCheckIn, reservationID, payload)
	suite.Require().NoError(err)

	suite.replayOne()
	suite.mockReservationRepo.AssertExpectations(suite.T())
	suite.mockRoomRepo.AssertExpectations(suite.T())
}

func (suite *QueueHandlersTestSuite) TestCheckIn_RedeliveryIsNoOp() {
	ctx := context.Background()
	reservationID := uuid.NewString()
	payload, _ := json.Marshal(map[string]string{"roomID": uuid.NewString(), "actorID": uuid.NewString()})

	// A previous delivery already checked the reservation in.
	suite.mockReservationRepo.On("FindReservationByID", mock.Anything, reservationID).Return(&domain.Reservation{
		ReservationID: reservationID,
		Status:        domain.ReservationCheckedIn,
	}, nil).Once()

	_, err := suite.queue.Enqueue(ctx, domain.ActionCheckIn, reservationID, payload)
	suite.Require().NoError(err)

	suite.replayOne()
	suite.mockReservationRepo.AssertNotCalled(suite.T(), "UpdateReservationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRoomRepo.AssertNotCalled(suite.T(), "UpdateRoomStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QueueHandlersTestSuite) TestAssignRoom_Delivered() {
	ctx := context.Background()
	reservationID := uuid.NewString()
	roomID := uuid.NewString()
	actorID := uuid.NewString()
	payload, _ := json.Marshal(map[string]string{"roomID": roomID, "actorID": actorID})

	suite.mockRoomRepo.On("SetCurrentReservation", mock.Anything, roomID, reservationID, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.queue.Enqueue(ctx, domain.ActionAssignRoom, reservationID, payload)
	suite.Require().NoError(err)

	suite.replayOne()
	suite.mockRoomRepo.AssertExpectations(suite.T())
}

func (suite *QueueHandlersTestSuite) TestPostCharge_UsesActionIDAsChargeID() {
	ctx := context.Background()
	folioID := uuid.NewString()
	payload, _ := json.Marshal(map[string]any{
		"folioID": folioID, "chargeType": "minibar", "description": "Nuts", "amount": 900, "actorID": uuid.NewString(),
	})

	queued, err := suite.queue.Enqueue(ctx, domain.ActionPostCharge, folioID, payload)
	suite.Require().NoError(err)

	suite.mockChargeRepo.On("SaveCharge", mock.Anything, mock.MatchedBy(func(c domain.Charge) bool {
		return c.ChargeID == queued.ActionID && c.FolioID == folioID && c.Amount == 900
	})).Return(nil).Once()

	suite.replayOne()
	suite.mockChargeRepo.AssertExpectations(suite.T())
}

func (suite *QueueHandlersTestSuite) TestPostCharge_DuplicateAbsorbed() {
	// The store saw the charge on a previous delivery whose response was
	// lost. The primary-key conflict on the action ID resolves to success.
	ctx := context.Background()
	folioID := uuid.NewString()
	payload, _ := json.Marshal(map[string]any{
		"folioID": folioID, "chargeType": "minibar", "description": "Nuts", "amount": 900, "actorID": uuid.NewString(),
	})

	suite.mockChargeRepo.On("SaveCharge", mock.Anything, mock.AnythingOfType("domain.Charge")).
		Return(fmt.Errorf("charge exists: %w", apperrors.ErrDuplicate)).Once()

	_, err := suite.queue.Enqueue(ctx, domain.ActionPostCharge, folioID, payload)
	suite.Require().NoError(err)

	suite.replayOne()
	suite.mockChargeRepo.AssertExpectations(suite.T())
}

func (suite *QueueHandlersTestSuite) TestSubmitPayment_UsesActionIDAsPaymentID() {
	ctx := context.Background()
	folioID := uuid.NewString()
	payload, _ := json.Marshal(map[string]any{
		"folioID": folioID, "amount": 5000, "method": "mobile money", "actorID": uuid.NewString(),
	})

	queued, err := suite.queue.Enqueue(ctx, domain.ActionSubmitPayment, folioID, payload)
	suite.Require().NoError(err)

	suite.mockPaymentRepo.On("SavePayment", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.PaymentID == queued.ActionID &&
			p.FolioID == folioID &&
			p.Amount == 5000 &&
			p.Method == domain.MethodMobileMoney
	})).Return(nil).Once()

	suite.replayOne()
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *QueueHandlersTestSuite) TestSubmitPayment_UnknownMethodFailsAction() {
	ctx := context.Background()
	folioID := uuid.NewString()
	payload, _ := json.Marshal(map[string]any{
		"folioID": folioID, "amount": 5000, "method": "barter", "actorID": uuid.NewString(),
	})

	_, err := suite.queue.Enqueue(ctx, domain.ActionSubmitPayment, folioID, payload)
	suite.Require().NoError(err)

	count, err := suite.queue.RetryQueue(ctx)
	suite.Require().NoError(err)
	suite.Zero(count)

	pending, err := suite.queue.Pending(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(domain.QueuedFailed, pending[0].Status)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything)
}

func TestQueueHandlers(t *testing.T) {
	suite.Run(t, new(QueueHandlersTestSuite))
}
