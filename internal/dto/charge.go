package dto

// PostChargeRequest defines the input for posting a charge to a room's open
// folio. Amount is integer minor units. Negative amounts are only accepted
// for adjustment charges (corrections are offsetting rows, never deletions).
type PostChargeRequest struct {
	ChargeType  string `json:"chargeType" binding:"required"`
	Description string `json:"description" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
}
