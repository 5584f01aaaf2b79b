package pgsql

import (
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ReservationRepo: newPgxReservationRepository(dbPool),
		RoomRepo:        newPgxRoomRepository(dbPool),
		FolioRepo:       newPgxFolioRepository(dbPool),
		ChargeRepo:      newPgxChargeRepository(dbPool),
		PaymentRepo:     newPgxPaymentRepository(dbPool),
		AuditRepo:       newPgxAuditRepository(dbPool),
	}
}
