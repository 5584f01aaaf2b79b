package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
)

// Queued action payloads. The action's Target carries the semantic key
// (reservation or folio ID); the payload carries the rest.

type checkInPayload struct {
	RoomID  string `json:"roomID"`
	ActorID string `json:"actorID"`
}

type assignRoomPayload struct {
	RoomID  string `json:"roomID"`
	ActorID string `json:"actorID"`
}

type postChargePayload struct {
	FolioID     string `json:"folioID"`
	ChargeType  string `json:"chargeType"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	ActorID     string `json:"actorID"`
}

type submitPaymentPayload struct {
	FolioID string `json:"folioID"`
	Amount  int64  `json:"amount"`
	Method  string `json:"method"`
	ActorID string `json:"actorID"`
}

// RegisterDefaultHandlers wires the front-desk action handlers onto the
// queue. Every handler is idempotent: replays keyed by the action ID plus
// its target produce no additional observable effect.
func RegisterDefaultHandlers(queue portssvc.QueueSvcFacade, repos portsrepo.RepositoryProvider) {
	queue.RegisterHandler(domain.ActionCheckIn, checkInHandler(repos))
	queue.RegisterHandler(domain.ActionAssignRoom, assignRoomHandler(repos))
	queue.RegisterHandler(domain.ActionPostCharge, postChargeHandler(repos))
	queue.RegisterHandler(domain.ActionSubmitPayment, submitPaymentHandler(repos))
}

// checkInHandler transitions the target reservation to checked_in. A
// reservation already past confirmed absorbs redelivery as a no-op.
func checkInHandler(repos portsrepo.RepositoryProvider) portssvc.ActionHandler {
	return func(ctx context.Context, action domain.QueuedAction) error {
		var payload checkInPayload
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return fmt.Errorf("malformed check_in payload: %w", apperrors.ErrValidation)
		}

		reservation, err := repos.ReservationRepo.FindReservationByID(ctx, action.Target)
		if err != nil {
			return err
		}
		if reservation == nil {
			return fmt.Errorf("reservation %s: %w", action.Target, apperrors.ErrNotFound)
		}
		if reservation.Status != domain.ReservationConfirmed {
			// Already checked in (or further along): a redelivered action.
			return nil
		}

		now := time.Now().UTC()
		if err := repos.ReservationRepo.UpdateReservationStatus(ctx, action.Target, domain.ReservationCheckedIn, payload.ActorID, now); err != nil {
			return err
		}
		if err := repos.RoomRepo.SetCurrentReservation(ctx, payload.RoomID, action.Target, payload.ActorID, now); err != nil {
			return err
		}
		return repos.RoomRepo.UpdateRoomStatus(ctx, payload.RoomID, domain.RoomOccupied, payload.ActorID, now)
	}
}

// assignRoomHandler points a room at the target reservation. The write is a
// plain set, so redelivery is naturally idempotent.
func assignRoomHandler(repos portsrepo.RepositoryProvider) portssvc.ActionHandler {
	return func(ctx context.Context, action domain.QueuedAction) error {
		var payload assignRoomPayload
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return fmt.Errorf("malformed assign_room payload: %w", apperrors.ErrValidation)
		}
		return repos.RoomRepo.SetCurrentReservation(ctx, payload.RoomID, action.Target, payload.ActorID, time.Now().UTC())
	}
}

// postChargeHandler appends a charge using the action ID as the charge ID, so
// a redelivered action trips the store's primary key instead of double-posting.
func postChargeHandler(repos portsrepo.RepositoryProvider) portssvc.ActionHandler {
	return func(ctx context.Context, action domain.QueuedAction) error {
		var payload postChargePayload
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return fmt.Errorf("malformed post_charge payload: %w", apperrors.ErrValidation)
		}

		charge := domain.Charge{
			ChargeID:    action.ActionID,
			FolioID:     payload.FolioID,
			ChargeType:  domain.ChargeType(payload.ChargeType),
			Description: payload.Description,
			Amount:      payload.Amount,
			PostedBy:    payload.ActorID,
			CreatedAt:   time.Now().UTC(),
		}
		err := repos.ChargeRepo.SaveCharge(ctx, charge)
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil
		}
		return err
	}
}

// submitPaymentHandler appends a payment using the action ID as the payment
// ID; duplicate delivery resolves to success without a second capture.
func submitPaymentHandler(repos portsrepo.RepositoryProvider) portssvc.ActionHandler {
	return func(ctx context.Context, action domain.QueuedAction) error {
		var payload submitPaymentPayload
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return fmt.Errorf("malformed submit_payment payload: %w", apperrors.ErrValidation)
		}
		method, ok := domain.CanonicalMethod(payload.Method)
		if !ok {
			return fmt.Errorf("unrecognized payment method %q: %w", payload.Method, apperrors.ErrValidation)
		}

		payment := domain.Payment{
			PaymentID:   action.ActionID,
			FolioID:     payload.FolioID,
			Amount:      payload.Amount,
			Method:      method,
			Status:      domain.PaymentCompleted,
			ProcessedBy: payload.ActorID,
			CreatedAt:   time.Now().UTC(),
		}
		err := repos.PaymentRepo.SavePayment(ctx, payment)
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil
		}
		return err
	}
}
