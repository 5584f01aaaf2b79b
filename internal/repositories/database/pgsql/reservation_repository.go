package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
)

type PgxReservationRepository struct {
	BaseRepository
}

// newPgxReservationRepository creates a new repository for reservation data.
func newPgxReservationRepository(pool *pgxpool.Pool) portsrepo.ReservationRepositoryFacade {
	return &PgxReservationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ReservationRepositoryFacade = (*PgxReservationRepository)(nil)

const reservationColumns = `
	reservation_id, tenant_id, room_id, guest_name, check_in_date, check_out_date, status,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var r domain.Reservation
	var status string
	err := row.Scan(
		&r.ReservationID,
		&r.TenantID,
		&r.RoomID,
		&r.GuestName,
		&r.CheckInDate,
		&r.CheckOutDate,
		&status,
		&r.CreatedAt,
		&r.CreatedBy,
		&r.LastUpdatedAt,
		&r.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	r.Status = domain.ReservationStatus(status)
	return &r, nil
}

// FindReservationByID retrieves a reservation by its unique identifier.
func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = $1;`

	reservation, err := scanReservation(r.Pool.QueryRow(ctx, query, reservationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reservation %s: %w", reservationID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find reservation %s: %w", reservationID, err)
	}
	return reservation, nil
}

// FindActiveReservationByRoomID retrieves the most recent checked-in
// reservation for a room. No rows is a normal outcome (vacant room), so it
// returns nil rather than an error.
func (r *PgxReservationRepository) FindActiveReservationByRoomID(ctx context.Context, roomID string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE room_id = $1 AND status = $2
		ORDER BY check_in_date DESC
		LIMIT 1;`

	reservation, err := scanReservation(r.Pool.QueryRow(ctx, query, roomID, string(domain.ReservationCheckedIn)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active reservation for room %s: %w", roomID, err)
	}
	return reservation, nil
}

// SaveReservation persists a new reservation.
func (r *PgxReservationRepository) SaveReservation(ctx context.Context, reservation domain.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	_, err := r.Pool.Exec(ctx, query,
		reservation.ReservationID,
		reservation.TenantID,
		reservation.RoomID,
		reservation.GuestName,
		reservation.CheckInDate,
		reservation.CheckOutDate,
		string(reservation.Status),
		reservation.CreatedAt,
		reservation.CreatedBy,
		reservation.LastUpdatedAt,
		reservation.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reservation %s: %w", reservation.ReservationID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save reservation", err)
	}
	return nil
}

// UpdateReservationStatus transitions a reservation to a new status.
func (r *PgxReservationRepository) UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE reservations
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE reservation_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, reservationID, string(status), now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s: %w", reservationID, apperrors.ErrNotFound)
	}
	return nil
}
