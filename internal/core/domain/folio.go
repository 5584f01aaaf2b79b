package domain

import "time"

// FolioStatus indicates whether a folio can still accept postings.
type FolioStatus string

const (
	FolioOpen   FolioStatus = "open"
	FolioClosed FolioStatus = "closed"
)

// Folio is the per-stay running account of charges and payments. All amounts
// are integer minor units. TotalCharges, TaxAmount, TotalPayments and Balance
// are maintained authoritatively by store-side triggers; they must never be
// recomputed client-side from line items, since the store may apply business
// rules (e.g. tax) unknown to this core.
type Folio struct {
	FolioID       string      `json:"folioID"` // Primary Key (UUID)
	FolioNumber   string      `json:"folioNumber"`
	ReservationID string      `json:"reservationID"` // <=1 open folio per reservation
	TenantID      string      `json:"tenantID"`
	Status        FolioStatus `json:"status"`
	TotalCharges  int64       `json:"totalCharges"`
	TaxAmount     int64       `json:"taxAmount"`
	TotalPayments int64       `json:"totalPayments"`
	Balance       int64       `json:"balance"`
	ClosedBy      string      `json:"closedBy,omitempty"`
	ClosedAt      *time.Time  `json:"closedAt,omitempty"`
	AuditFields
}

// IsSettled reports whether the folio balance is fully covered.
func (f *Folio) IsSettled() bool {
	return f.Balance <= 0
}
