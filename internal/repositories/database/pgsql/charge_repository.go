package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
)

type PgxChargeRepository struct {
	BaseRepository
}

// newPgxChargeRepository creates a new repository for charge data.
func newPgxChargeRepository(pool *pgxpool.Pool) portsrepo.ChargeRepositoryFacade {
	return &PgxChargeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ChargeRepositoryFacade = (*PgxChargeRepository)(nil)

// ListChargesByFolioID retrieves all charges posted to a folio, oldest first.
func (r *PgxChargeRepository) ListChargesByFolioID(ctx context.Context, folioID string) ([]domain.Charge, error) {
	query := `
		SELECT charge_id, folio_id, charge_type, description, amount, posted_by, created_at
		FROM folio_charges
		WHERE folio_id = $1
		ORDER BY created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query charges for folio %s: %w", folioID, err)
	}
	defer rows.Close()

	charges, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Charge, error) {
		var c domain.Charge
		var chargeType string
		err := row.Scan(
			&c.ChargeID,
			&c.FolioID,
			&chargeType,
			&c.Description,
			&c.Amount,
			&c.PostedBy,
			&c.CreatedAt,
		)
		c.ChargeType = domain.ChargeType(chargeType)
		return c, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Charge{}, nil
		}
		return nil, fmt.Errorf("failed to scan charges for folio %s: %w", folioID, err)
	}
	if charges == nil {
		charges = []domain.Charge{}
	}
	return charges, nil
}

// SaveCharge appends a charge to a folio. The store's triggers update the
// folio aggregates in the same transaction.
func (r *PgxChargeRepository) SaveCharge(ctx context.Context, charge domain.Charge) error {
	query := `
		INSERT INTO folio_charges (charge_id, folio_id, charge_type, description, amount, posted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err := r.Pool.Exec(ctx, query,
		charge.ChargeID,
		charge.FolioID,
		string(charge.ChargeType),
		charge.Description,
		charge.Amount,
		charge.PostedBy,
		charge.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("charge %s: %w", charge.ChargeID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save charge", err)
	}
	return nil
}
