package repositories

import (
	"context"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// ListPaymentsByFolioID retrieves all payments against a folio, oldest first.
	ListPaymentsByFolioID(ctx context.Context, folioID string) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payment data. Payments are
// append-only; there is deliberately no update or delete.
type PaymentWriter interface {
	// SavePayment appends a payment to a folio.
	SavePayment(ctx context.Context, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
