package dto

import (
	"time"

	"github.com/hotelops/folio-core/internal/core/domain"
	"github.com/hotelops/folio-core/internal/utils/money"
)

// ChargeResponse defines the data returned for a single bill line item.
type ChargeResponse struct {
	ChargeID    string    `json:"chargeID"`
	ChargeType  string    `json:"chargeType"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Display     string    `json:"display"` // formatted major units, e.g. "550.00"
	CreatedAt   time.Time `json:"createdAt"`
}

// GuestBillResponse defines the aggregated bill returned to the front desk.
type GuestBillResponse struct {
	FolioID        string           `json:"folioID"`
	FolioNumber    string           `json:"folioNumber"`
	RoomID         string           `json:"roomID"`
	RoomNumber     string           `json:"roomNumber"`
	GuestName      string           `json:"guestName"`
	Charges        []ChargeResponse `json:"charges"`
	Subtotal       int64            `json:"subtotal"`
	Tax            int64            `json:"tax"`
	Total          int64            `json:"total"`
	TotalDisplay   string           `json:"totalDisplay"`
	PendingBalance int64            `json:"pendingBalance"`
	BalanceDisplay string           `json:"balanceDisplay"`
	PaymentStatus  string           `json:"paymentStatus"`
}

// ToGuestBillResponse converts a domain.GuestBill to its response DTO.
func ToGuestBillResponse(bill *domain.GuestBill) GuestBillResponse {
	charges := make([]ChargeResponse, len(bill.Charges))
	for i, ch := range bill.Charges {
		charges[i] = ChargeResponse{
			ChargeID:    ch.ChargeID,
			ChargeType:  string(ch.ChargeType),
			Description: ch.Description,
			Amount:      ch.Amount,
			Display:     money.FormatMinorUnits(ch.Amount),
			CreatedAt:   ch.CreatedAt,
		}
	}
	return GuestBillResponse{
		FolioID:        bill.FolioID,
		FolioNumber:    bill.FolioNumber,
		RoomID:         bill.RoomID,
		RoomNumber:     bill.RoomNumber,
		GuestName:      bill.GuestName,
		Charges:        charges,
		Subtotal:       bill.Subtotal,
		Tax:            bill.Tax,
		Total:          bill.Total,
		TotalDisplay:   money.FormatMinorUnits(bill.Total),
		PendingBalance: bill.PendingBalance,
		BalanceDisplay: money.FormatMinorUnits(bill.PendingBalance),
		PaymentStatus:  string(bill.PaymentStatus),
	}
}
