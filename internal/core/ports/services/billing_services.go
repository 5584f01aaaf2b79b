package services

import (
	"context"

	"github.com/hotelops/folio-core/internal/core/domain"
	"github.com/hotelops/folio-core/internal/dto"
)

// BillingReaderSvc defines read operations for guest bills
type BillingReaderSvc interface {
	// LoadGuestBill resolves the active reservation for a room, obtains its
	// folio and composes the authoritative guest bill. Partial data is never
	// surfaced: any fetch failure fails the whole load.
	LoadGuestBill(ctx context.Context, roomID string) (*domain.GuestBill, error)
}

// BillingWriterSvc defines posting operations against a folio
type BillingWriterSvc interface {
	// PostCharge appends a charge to the room's open folio and returns the
	// reloaded bill.
	PostCharge(ctx context.Context, roomID string, req dto.PostChargeRequest, actorID string) (*domain.GuestBill, error)
}

// BillingSvcFacade combines all billing-related service interfaces
type BillingSvcFacade interface {
	BillingReaderSvc
	BillingWriterSvc
}
