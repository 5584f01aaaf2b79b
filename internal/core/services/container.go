package services

import (
	"context"
	"time"

	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
	"github.com/hotelops/folio-core/internal/platform/notify"
)

// ContainerConfig carries the tunables the services need at construction time.
// Zero values fall back to each service's default.
type ContainerConfig struct {
	TenantID        string
	CheckoutTimeout time.Duration
	GraceWindow     time.Duration
	RetryBaseDelay  time.Duration
	RetryMaxDelay   time.Duration
}

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(
	ctx context.Context,
	repos *portsrepo.RepositoryProvider,
	queueStore portsrepo.QueueStorageFacade,
	channel notify.Channel,
	cfg ContainerConfig,
) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	// Billing first: checkout, payment and the reconciler all read through it.
	container.Billing = NewBillingService(
		repos.RoomRepo,
		repos.ReservationRepo,
		repos.FolioRepo,
		repos.ChargeRepo,
		repos.PaymentRepo,
		repos.AuditRepo,
		cfg.TenantID,
	)

	container.Reconciler = NewReconcilerService(container.Billing, channel)

	checkoutOptions := []CheckoutOption{WithReconciler(container.Reconciler)}
	if cfg.CheckoutTimeout > 0 {
		checkoutOptions = append(checkoutOptions, WithCompleteTimeout(cfg.CheckoutTimeout))
	}
	container.Checkout = NewCheckoutService(
		container.Billing,
		repos.ReservationRepo,
		repos.FolioRepo,
		repos.RoomRepo,
		repos.AuditRepo,
		cfg.TenantID,
		checkoutOptions...,
	)

	container.Payment = NewPaymentService(
		container.Billing,
		container.Checkout,
		repos.PaymentRepo,
		repos.AuditRepo,
		cfg.TenantID,
	)

	var queueOptions []QueueOption
	if cfg.GraceWindow > 0 {
		queueOptions = append(queueOptions, WithGraceWindow(cfg.GraceWindow))
	}
	if cfg.RetryBaseDelay > 0 && cfg.RetryMaxDelay > 0 {
		queueOptions = append(queueOptions, WithRetryBackoff(cfg.RetryBaseDelay, cfg.RetryMaxDelay))
	}
	queue, err := NewQueueService(ctx, queueStore, queueOptions...)
	if err != nil {
		return nil, err
	}
	RegisterDefaultHandlers(queue, *repos)
	container.Queue = queue

	return container, nil
}
