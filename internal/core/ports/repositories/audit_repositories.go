package repositories

import (
	"context"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// AuditReader defines read operations for the audit trail
type AuditReader interface {
	// ListAuditByEntity retrieves audit records for an entity, oldest first.
	ListAuditByEntity(ctx context.Context, entityType string, entityID string) ([]domain.AuditRecord, error)
}

// AuditWriter defines write operations for the audit trail
type AuditWriter interface {
	// SaveAuditRecord appends an audit record.
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error
}

// AuditRepositoryFacade combines all audit-related repository interfaces
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
