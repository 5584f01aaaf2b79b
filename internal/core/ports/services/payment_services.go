package services

import (
	"context"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// PaymentSvcFacade validates and persists payments against a session's folio.
type PaymentSvcFacade interface {
	// SubmitPayment validates the amount and method (raw UI method strings
	// are canonicalized before persistence), appends a completed payment,
	// appends an audit record and reloads the session's bill. Store errors
	// are translated so raw constraint violations never reach the UI.
	SubmitPayment(ctx context.Context, sessionID string, amount int64, method string, actorID string) (*domain.Payment, error)
}
