package dto

import (
	"time"

	"github.com/hotelops/folio-core/internal/core/domain"
	"github.com/hotelops/folio-core/internal/utils/money"
)

// SubmitPaymentRequest defines the input for submitting a payment against a
// checkout session. Amount is integer minor units; Method is the raw
// UI-facing label, canonicalized by the service.
type SubmitPaymentRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Method string `json:"method" binding:"required"`
}

// PaymentResponse defines the data returned for a captured payment.
type PaymentResponse struct {
	PaymentID string    `json:"paymentID"`
	FolioID   string    `json:"folioID"`
	Amount    int64     `json:"amount"`
	Display   string    `json:"display"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to its response DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID: p.PaymentID,
		FolioID:   p.FolioID,
		Amount:    p.Amount,
		Display:   money.FormatMinorUnits(p.Amount),
		Method:    string(p.Method),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}
