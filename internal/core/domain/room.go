package domain

// RoomStatus indicates the housekeeping/occupancy state of a room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomDirty       RoomStatus = "dirty"
	RoomMaintenance RoomStatus = "maintenance"
)

// Room represents a physical room. CurrentReservationID is a denormalized
// pointer to the occupying reservation; write propagation to it can lag, so
// readers must fall back to a status-filtered reservation scan when it is
// stale or empty.
type Room struct {
	RoomID               string     `json:"roomID"` // Primary Key (UUID)
	TenantID             string     `json:"tenantID"`
	RoomNumber           string     `json:"roomNumber"` // User-facing label, e.g. "101"
	Status               RoomStatus `json:"status"`
	CurrentReservationID string     `json:"currentReservationID"` // Nullable FK -> reservations
	AuditFields
}
