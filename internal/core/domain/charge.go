package domain

import "time"

// ChargeType categorizes a billable line item.
type ChargeType string

const (
	ChargeRoom    ChargeType = "room"
	ChargeService ChargeType = "service"
	ChargeMinibar ChargeType = "minibar"
	ChargeLaundry ChargeType = "laundry"
	ChargeMisc    ChargeType = "misc"
	// ChargeAdjustment offsets an earlier charge. Charges are append-only;
	// corrections are new offsetting rows, never deletions.
	ChargeAdjustment ChargeType = "adjustment"
)

// Charge is a billable line item posted to a folio. Amount is integer minor
// units and may be negative only for adjustments.
type Charge struct {
	ChargeID    string     `json:"chargeID"` // Primary Key (UUID)
	FolioID     string     `json:"folioID"`  // FK -> folios.folio_id
	ChargeType  ChargeType `json:"chargeType"`
	Description string     `json:"description"`
	Amount      int64      `json:"amount"`
	PostedBy    string     `json:"postedBy"` // StaffID reference
	CreatedAt   time.Time  `json:"createdAt"`
}
