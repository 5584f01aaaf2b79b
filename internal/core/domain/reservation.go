package domain

import "time"

// ReservationStatus indicates where a reservation is in its lifecycle.
type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// Reservation represents a guest's stay. It is the anchor entity for folio
// settlement: exactly one open folio may exist per reservation, and checkout
// completion is keyed by the reservation ID.
type Reservation struct {
	ReservationID string            `json:"reservationID"` // Primary Key (UUID)
	TenantID      string            `json:"tenantID"`      // FK -> tenants.tenant_id
	RoomID        string            `json:"roomID"`        // FK -> rooms.room_id
	GuestName     string            `json:"guestName"`
	CheckInDate   time.Time         `json:"checkInDate"`
	CheckOutDate  time.Time         `json:"checkOutDate"`
	Status        ReservationStatus `json:"status"`
	AuditFields
}

// IsActive reports whether the reservation currently occupies its room.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationCheckedIn
}
