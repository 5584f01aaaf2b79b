package repositories

import (
	"context"
	"time"

	"github.com/hotelops/folio-core/internal/core/domain"
)

// FolioReader defines read operations for folio data
type FolioReader interface {
	// FindFolioByID retrieves a specific folio by its unique identifier.
	FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error)

	// FindOpenFolioByReservationID retrieves the open folio for a
	// reservation, if one exists.
	FindOpenFolioByReservationID(ctx context.Context, reservationID string) (*domain.Folio, error)
}

// FolioWriter defines write operations for folio data
type FolioWriter interface {
	// GetOrCreateFolio invokes the store's atomic get_or_create_folio RPC.
	// It is idempotent and safe under concurrent invocation for the same
	// reservation, and returns the folio ID.
	GetOrCreateFolio(ctx context.Context, reservationID string, tenantID string) (string, error)

	// CloseFolio marks a folio closed, recording who closed it and when.
	CloseFolio(ctx context.Context, folioID string, closedBy string, now time.Time) error
}

// FolioRepositoryFacade combines all folio-related repository interfaces
type FolioRepositoryFacade interface {
	FolioReader
	FolioWriter
}
