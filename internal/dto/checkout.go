package dto

import (
	"time"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// OpenSessionRequest defines the input for opening a checkout session.
type OpenSessionRequest struct {
	RoomID string `json:"roomID" binding:"required"`
}

// CheckoutSessionResponse defines the session state returned to the UI.
type CheckoutSessionResponse struct {
	SessionID      string             `json:"sessionID"`
	RoomID         string             `json:"roomID"`
	CheckoutStatus string             `json:"checkoutStatus"`
	Bill           *GuestBillResponse `json:"bill,omitempty"`
	Payments       []PaymentResponse  `json:"payments"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty"`
	CompletedBy    string             `json:"completedBy,omitempty"`
}

// ToCheckoutSessionResponse converts a domain.CheckoutSession to its response DTO.
func ToCheckoutSessionResponse(session *domain.CheckoutSession) CheckoutSessionResponse {
	resp := CheckoutSessionResponse{
		SessionID:      session.SessionID,
		RoomID:         session.RoomID,
		CheckoutStatus: string(session.Status),
		Payments:       make([]PaymentResponse, len(session.Payments)),
		CompletedAt:    session.CompletedAt,
		CompletedBy:    session.CompletedBy,
	}
	if session.Bill != nil {
		bill := ToGuestBillResponse(session.Bill)
		resp.Bill = &bill
	}
	for i, p := range session.Payments {
		resp.Payments[i] = ToPaymentResponse(&p)
	}
	return resp
}
