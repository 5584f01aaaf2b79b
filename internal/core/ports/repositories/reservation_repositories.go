package repositories

import (
	"context"
	"time"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// ReservationReader defines read operations for reservation data
type ReservationReader interface {
	// FindReservationByID retrieves a specific reservation by its unique identifier.
	FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// FindActiveReservationByRoomID retrieves the most recent checked-in
	// reservation for a room. Used as the fallback when the room's direct
	// reservation reference is stale or absent.
	FindActiveReservationByRoomID(ctx context.Context, roomID string) (*domain.Reservation, error)
}

// ReservationWriter defines write operations for reservation data
type ReservationWriter interface {
	// SaveReservation persists a new reservation.
	SaveReservation(ctx context.Context, reservation domain.Reservation) error

	// UpdateReservationStatus transitions a reservation to a new status.
	UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, updatedBy string, now time.Time) error
}

// ReservationRepositoryFacade combines all reservation-related repository interfaces
type ReservationRepositoryFacade interface {
	ReservationReader
	ReservationWriter
}
