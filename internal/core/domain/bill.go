package domain

// BillPaymentStatus summarizes how much of a bill has been covered.
type BillPaymentStatus string

const (
	BillPaid    BillPaymentStatus = "paid"
	BillPartial BillPaymentStatus = "partial"
	BillUnpaid  BillPaymentStatus = "unpaid"
)

// DerivePaymentStatus derives the bill payment status from the store's
// authoritative balance and payment total: paid when the balance is fully
// covered, partial when some payment has been received, unpaid otherwise.
func DerivePaymentStatus(balance, totalPayments int64) BillPaymentStatus {
	switch {
	case balance <= 0:
		return BillPaid
	case totalPayments > 0:
		return BillPartial
	default:
		return BillUnpaid
	}
}

// GuestBill is the aggregated view of a folio presented at the front desk.
// It is derived wholesale from store state on every load; it is never patched
// incrementally, so two terminals converge by reloading.
type GuestBill struct {
	FolioID        string            `json:"folioID"`
	FolioNumber    string            `json:"folioNumber"`
	ReservationID  string            `json:"reservationID"`
	RoomID         string            `json:"roomID"`
	RoomNumber     string            `json:"roomNumber"`
	GuestName      string            `json:"guestName"`
	Charges        []Charge          `json:"charges"`
	Payments       []Payment         `json:"payments"`
	Subtotal       int64             `json:"subtotal"`       // store's total_charges
	Tax            int64             `json:"tax"`            // store's tax_amount
	Total          int64             `json:"total"`          // subtotal + tax
	TotalPayments  int64             `json:"totalPayments"`  // store's total_payments
	PendingBalance int64             `json:"pendingBalance"` // store's balance
	PaymentStatus  BillPaymentStatus `json:"paymentStatus"`
}
