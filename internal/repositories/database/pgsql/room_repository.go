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

type PgxRoomRepository struct {
	BaseRepository
}

// newPgxRoomRepository creates a new repository for room data.
func newPgxRoomRepository(pool *pgxpool.Pool) portsrepo.RoomRepositoryFacade {
	return &PgxRoomRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RoomRepositoryFacade = (*PgxRoomRepository)(nil)

// FindRoomByID retrieves a room by its unique identifier.
func (r *PgxRoomRepository) FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error) {
	query := `
		SELECT room_id, tenant_id, room_number, status, current_reservation_id,
			created_at, created_by, last_updated_at, last_updated_by
		FROM rooms
		WHERE room_id = $1;`

	var room domain.Room
	var status string
	var currentReservationID *string
	err := r.Pool.QueryRow(ctx, query, roomID).Scan(
		&room.RoomID,
		&room.TenantID,
		&room.RoomNumber,
		&status,
		&currentReservationID,
		&room.CreatedAt,
		&room.CreatedBy,
		&room.LastUpdatedAt,
		&room.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find room %s: %w", roomID, err)
	}
	room.Status = domain.RoomStatus(status)
	if currentReservationID != nil {
		room.CurrentReservationID = *currentReservationID
	}
	return &room, nil
}

// UpdateRoomStatus transitions a room to a new housekeeping status.
func (r *PgxRoomRepository) UpdateRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE rooms
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE room_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, roomID, string(status), now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update room status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
	}
	return nil
}

// SetCurrentReservation updates the room's denormalized reservation pointer.
// An empty reservationID stores NULL, clearing the pointer.
func (r *PgxRoomRepository) SetCurrentReservation(ctx context.Context, roomID string, reservationID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE rooms
		SET current_reservation_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE room_id = $1;`

	var ref *string
	if reservationID != "" {
		ref = &reservationID
	}
	tag, err := r.Pool.Exec(ctx, query, roomID, ref, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set room reservation reference", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room %s: %w", roomID, apperrors.ErrNotFound)
	}
	return nil
}
