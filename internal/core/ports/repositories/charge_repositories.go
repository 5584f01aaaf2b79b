package repositories

import (
	"context"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// ChargeReader defines read operations for charge data
type ChargeReader interface {
	// ListChargesByFolioID retrieves all charges posted to a folio, oldest first.
	ListChargesByFolioID(ctx context.Context, folioID string) ([]domain.Charge, error)
}

// ChargeWriter defines write operations for charge data. Charges are
// append-only; there is deliberately no update or delete.
type ChargeWriter interface {
	// SaveCharge appends a charge to a folio.
	SaveCharge(ctx context.Context, charge domain.Charge) error
}

// ChargeRepositoryFacade combines all charge-related repository interfaces
type ChargeRepositoryFacade interface {
	ChargeReader
	ChargeWriter
}
