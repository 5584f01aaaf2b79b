package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hotelops/folio-core/internal/core/domain"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/core/services"
	"github.com/hotelops/folio-core/internal/platform/notify"
)

type ReconcilerServiceTestSuite struct {
	suite.Suite
	mockBilling *MockBillingService
	bus         *notify.Bus
	service     portssvc.ReconcilerSvc
}

func (suite *ReconcilerServiceTestSuite) SetupTest() {
	suite.mockBilling = new(MockBillingService)
	suite.bus = notify.NewBus()
	suite.service = services.NewReconcilerService(suite.mockBilling, suite.bus)
}

func (suite *ReconcilerServiceTestSuite) TestAttach_ReloadsOnChargeChange() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	roomID := uuid.NewString()
	folioID := uuid.NewString()
	fresh := checkoutBillFixture(700)

	suite.mockBilling.On("LoadGuestBill", mock.Anything, roomID).Return(fresh, nil).Once()

	var applied []*domain.GuestBill
	err := suite.service.Attach(ctx, sessionID, roomID, folioID, func(b *domain.GuestBill) {
		applied = append(applied, b)
	})
	suite.Require().NoError(err)

	// Another terminal posts a charge on this folio.
	suite.bus.Publish(notify.Event{Op: notify.OpInsert, Table: "folio_charges", Key: folioID})

	suite.Require().Len(applied, 1)
	suite.Same(fresh, applied[0])
	suite.mockBilling.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestAttach_ReloadsOnPaymentChange() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	roomID := uuid.NewString()
	folioID := uuid.NewString()
	fresh := checkoutBillFixture(0)

	suite.mockBilling.On("LoadGuestBill", mock.Anything, roomID).Return(fresh, nil).Once()

	applied := 0
	err := suite.service.Attach(ctx, sessionID, roomID, folioID, func(*domain.GuestBill) {
		applied++
	})
	suite.Require().NoError(err)

	suite.bus.Publish(notify.Event{Op: notify.OpInsert, Table: "payments", Key: folioID})

	suite.Equal(1, applied)
}

func (suite *ReconcilerServiceTestSuite) TestAttach_IgnoresOtherFolios() {
	ctx := context.Background()
	folioID := uuid.NewString()

	applied := 0
	err := suite.service.Attach(ctx, uuid.NewString(), uuid.NewString(), folioID, func(*domain.GuestBill) {
		applied++
	})
	suite.Require().NoError(err)

	suite.bus.Publish(notify.Event{Op: notify.OpInsert, Table: "folio_charges", Key: uuid.NewString()})

	suite.Zero(applied)
	suite.mockBilling.AssertNotCalled(suite.T(), "LoadGuestBill", mock.Anything, mock.Anything)
}

func (suite *ReconcilerServiceTestSuite) TestAttach_ReloadsOnChargeRemoval() {
	ctx := context.Background()
	roomID := uuid.NewString()
	folioID := uuid.NewString()
	fresh := checkoutBillFixture(500)

	suite.mockBilling.On("LoadGuestBill", mock.Anything, roomID).Return(fresh, nil).Once()

	applied := 0
	err := suite.service.Attach(ctx, uuid.NewString(), roomID, folioID, func(*domain.GuestBill) {
		applied++
	})
	suite.Require().NoError(err)

	// An operator removes a charge row directly; level-triggered reload
	// means the op kind does not matter, only the folio it touched.
	suite.bus.Publish(notify.Event{Op: notify.OpDelete, Table: "folio_charges", Key: folioID})

	suite.Equal(1, applied)
}

func (suite *ReconcilerServiceTestSuite) TestReloadFailureKeepsLastBill() {
	ctx := context.Background()
	roomID := uuid.NewString()
	folioID := uuid.NewString()

	suite.mockBilling.On("LoadGuestBill", mock.Anything, roomID).Return(nil, assert.AnError).Once()

	applied := 0
	err := suite.service.Attach(ctx, uuid.NewString(), roomID, folioID, func(*domain.GuestBill) {
		applied++
	})
	suite.Require().NoError(err)

	suite.bus.Publish(notify.Event{Op: notify.OpUpdate, Table: "payments", Key: folioID})

	// The apply callback is never invoked with a failed load.
	suite.Zero(applied)
}

func (suite *ReconcilerServiceTestSuite) TestDetach_StopsDelivery() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	folioID := uuid.NewString()

	applied := 0
	err := suite.service.Attach(ctx, sessionID, uuid.NewString(), folioID, func(*domain.GuestBill) {
		applied++
	})
	suite.Require().NoError(err)

	suite.service.Detach(sessionID)
	suite.bus.Publish(notify.Event{Op: notify.OpInsert, Table: "folio_charges", Key: folioID})

	suite.Zero(applied)
}

func (suite *ReconcilerServiceTestSuite) TestReattach_ReplacesPreviousSubscription() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	roomID := uuid.NewString()
	oldFolioID := uuid.NewString()
	newFolioID := uuid.NewString()
	fresh := checkoutBillFixture(100)

	suite.mockBilling.On("LoadGuestBill", mock.Anything, roomID).Return(fresh, nil)

	applied := 0
	suite.Require().NoError(suite.service.Attach(ctx, sessionID, roomID, oldFolioID, func(*domain.GuestBill) {
		applied++
	}))
	suite.Require().NoError(suite.service.Attach(ctx, sessionID, roomID, newFolioID, func(*domain.GuestBill) {
		applied++
	}))

	// Events on the old folio no longer reach the session.
	suite.bus.Publish(notify.Event{Op: notify.OpInsert, Table: "folio_charges", Key: oldFolioID})
	suite.Zero(applied)

	suite.bus.Publish(notify.Event{Op: notify.OpInsert, Table: "folio_charges", Key: newFolioID})
	suite.Equal(1, applied)
}

func TestReconcilerService(t *testing.T) {
	suite.Run(t, new(ReconcilerServiceTestSuite))
}
