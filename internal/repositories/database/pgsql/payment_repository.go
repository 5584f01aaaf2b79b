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

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// ListPaymentsByFolioID retrieves all payments against a folio, oldest first.
func (r *PgxPaymentRepository) ListPaymentsByFolioID(ctx context.Context, folioID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, folio_id, amount, method, status, processed_by, created_at
		FROM payments
		WHERE folio_id = $1
		ORDER BY created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for folio %s: %w", folioID, err)
	}
	defer rows.Close()

	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		var p domain.Payment
		var method, status string
		err := row.Scan(
			&p.PaymentID,
			&p.FolioID,
			&p.Amount,
			&method,
			&status,
			&p.ProcessedBy,
			&p.CreatedAt,
		)
		p.Method = domain.PaymentMethod(method)
		p.Status = domain.PaymentStatus(status)
		return p, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Payment{}, nil
		}
		return nil, fmt.Errorf("failed to scan payments for folio %s: %w", folioID, err)
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, nil
}

// SavePayment appends a payment to a folio. The store's triggers update the
// folio aggregates in the same transaction.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		INSERT INTO payments (payment_id, folio_id, amount, method, status, processed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err := r.Pool.Exec(ctx, query,
		payment.PaymentID,
		payment.FolioID,
		payment.Amount,
		string(payment.Method),
		string(payment.Status),
		payment.ProcessedBy,
		payment.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("payment %s: %w", payment.PaymentID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save payment", err)
	}
	return nil
}
