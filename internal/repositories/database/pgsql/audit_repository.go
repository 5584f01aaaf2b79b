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

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// ListAuditByEntity retrieves audit records for an entity, oldest first.
func (r *PgxAuditRepository) ListAuditByEntity(ctx context.Context, entityType string, entityID string) ([]domain.AuditRecord, error) {
	query := `
		SELECT audit_id, tenant_id, action, entity_type, entity_id, detail, actor_id, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records for %s %s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditRecord, error) {
		var rec domain.AuditRecord
		err := row.Scan(
			&rec.AuditID,
			&rec.TenantID,
			&rec.Action,
			&rec.EntityType,
			&rec.EntityID,
			&rec.Detail,
			&rec.ActorID,
			&rec.CreatedAt,
		)
		return rec, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.AuditRecord{}, nil
		}
		return nil, fmt.Errorf("failed to scan audit records: %w", err)
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}
	return records, nil
}

// SaveAuditRecord appends an audit record. The trail is append-only.
func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	query := `
		INSERT INTO audit_log (audit_id, tenant_id, action, entity_type, entity_id, detail, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	_, err := r.Pool.Exec(ctx, query,
		record.AuditID,
		record.TenantID,
		record.Action,
		record.EntityType,
		record.EntityID,
		record.Detail,
		record.ActorID,
		record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("audit record %s: %w", record.AuditID, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save audit record", err)
	}
	return nil
}
