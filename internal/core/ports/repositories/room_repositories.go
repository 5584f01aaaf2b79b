package repositories

import (
	"context"
	"time"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// RoomReader defines read operations for room data
type RoomReader interface {
	// FindRoomByID retrieves a specific room by its unique identifier.
	FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error)
}

// RoomWriter defines write operations for room data
type RoomWriter interface {
	// UpdateRoomStatus transitions a room to a new housekeeping status.
	UpdateRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus, updatedBy string, now time.Time) error

	// SetCurrentReservation updates the room's denormalized reservation pointer.
	// An empty reservationID clears it.
	SetCurrentReservation(ctx context.Context, roomID string, reservationID string, updatedBy string, now time.Time) error
}

// RoomRepositoryFacade combines all room-related repository interfaces
type RoomRepositoryFacade interface {
	RoomReader
	RoomWriter
}
