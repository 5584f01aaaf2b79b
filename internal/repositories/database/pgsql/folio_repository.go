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

type PgxFolioRepository struct {
	BaseRepository
}

// newPgxFolioRepository creates a new repository for folio data.
func newPgxFolioRepository(pool *pgxpool.Pool) portsrepo.FolioRepositoryFacade {
	return &PgxFolioRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.FolioRepositoryFacade = (*PgxFolioRepository)(nil)

const folioColumns = `
	folio_id, folio_number, reservation_id, tenant_id, status,
	total_charges, tax_amount, total_payments, balance,
	closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by
`

func scanFolio(row pgx.Row) (*domain.Folio, error) {
	var f domain.Folio
	var status string
	var closedBy *string
	err := row.Scan(
		&f.FolioID,
		&f.FolioNumber,
		&f.ReservationID,
		&f.TenantID,
		&status,
		&f.TotalCharges,
		&f.TaxAmount,
		&f.TotalPayments,
		&f.Balance,
		&closedBy,
		&f.ClosedAt,
		&f.CreatedAt,
		&f.CreatedBy,
		&f.LastUpdatedAt,
		&f.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	f.Status = domain.FolioStatus(status)
	if closedBy != nil {
		f.ClosedBy = *closedBy
	}
	return &f, nil
}

// FindFolioByID retrieves a folio with its trigger-maintained aggregates.
func (r *PgxFolioRepository) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE folio_id = $1;`

	folio, err := scanFolio(r.Pool.QueryRow(ctx, query, folioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("folio %s: %w", folioID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	return folio, nil
}

// FindOpenFolioByReservationID retrieves the open folio for a reservation.
// At most one exists per reservation; none is a normal outcome.
func (r *PgxFolioRepository) FindOpenFolioByReservationID(ctx context.Context, reservationID string) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + `
		FROM folios
		WHERE reservation_id = $1 AND status = $2;`

	folio, err := scanFolio(r.Pool.QueryRow(ctx, query, reservationID, string(domain.FolioOpen)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open folio for reservation %s: %w", reservationID, err)
	}
	return folio, nil
}

// GetOrCreateFolio invokes the store's atomic get_or_create_folio function.
// The function holds the lookup and insert in one statement, so concurrent
// callers for the same reservation all receive the same folio ID.
func (r *PgxFolioRepository) GetOrCreateFolio(ctx context.Context, reservationID string, tenantID string) (string, error) {
	var folioID string
	err := r.Pool.QueryRow(ctx, `SELECT get_or_create_folio($1, $2);`, reservationID, tenantID).Scan(&folioID)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to get or create folio", err)
	}
	return folioID, nil
}

// CloseFolio marks a folio closed. Closing an already closed folio is a no-op
// so a resumed checkout commit never fails on this step.
func (r *PgxFolioRepository) CloseFolio(ctx context.Context, folioID string, closedBy string, now time.Time) error {
	query := `
		UPDATE folios
		SET status = $2, closed_by = $3, closed_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE folio_id = $1 AND status = $5;`

	_, err := r.Pool.Exec(ctx, query, folioID, string(domain.FolioClosed), closedBy, now, string(domain.FolioOpen))
	if err != nil {
		return apperrors.NewAppError(500, "failed to close folio", err)
	}
	return nil
}
