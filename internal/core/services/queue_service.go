package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
	portssvc "github.com/hotelops/folio-core/internal/core/ports/services"
)

const (
	// defaultGraceWindow bounds how long a terminal may stay offline before
	// new mutations are rejected.
	defaultGraceWindow = 24 * time.Hour

	defaultRetryBaseDelay = time.Second
	defaultRetryMaxDelay  = 2 * time.Minute
)

// queueServiceImpl implements the QueueSvcFacade interface. The queue is
// local-process state: actions live in the terminal's durable store and are
// replayed strictly in enqueue order once connectivity returns.
type queueServiceImpl struct {
	BaseService
	store          portsrepo.QueueStorageFacade
	graceWindow    time.Duration
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration

	mu           sync.Mutex
	offlineSince *time.Time
	handlers     map[domain.ActionType]portssvc.ActionHandler

	// retryMu coalesces concurrent replay passes: a second invocation while
	// one is in flight is a no-op, so a double-tapped retry cannot deliver
	// an action twice from the same terminal.
	retryMu sync.Mutex
}

// QueueOption is a functional option for configuring the queue service
type QueueOption func(*queueServiceImpl)

// WithGraceWindow overrides the offline grace window.
func WithGraceWindow(d time.Duration) QueueOption {
	return func(s *queueServiceImpl) {
		s.graceWindow = d
	}
}

// WithRetryBackoff overrides the exponential backoff bounds applied before
// re-attempting previously failed actions.
func WithRetryBackoff(base, max time.Duration) QueueOption {
	return func(s *queueServiceImpl) {
		s.retryBaseDelay = base
		s.retryMaxDelay = max
	}
}

// NewQueueService creates the offline action queue, restoring the persisted
// offline marker so the grace window survives restarts.
func NewQueueService(ctx context.Context, store portsrepo.QueueStorageFacade, options ...QueueOption) (portssvc.QueueSvcFacade, error) {
	svc := &queueServiceImpl{
		store:          store,
		graceWindow:    defaultGraceWindow,
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
		handlers:       make(map[domain.ActionType]portssvc.ActionHandler),
	}
	for _, option := range options {
		option(svc)
	}

	since, err := store.OfflineSince(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore offline marker: %w", err)
	}
	svc.offlineSince = since
	return svc, nil
}

// Ensure queueServiceImpl implements the QueueSvcFacade interface
var _ portssvc.QueueSvcFacade = (*queueServiceImpl)(nil)

// RegisterHandler binds a handler to an action type.
func (s *queueServiceImpl) RegisterHandler(actionType domain.ActionType, handler portssvc.ActionHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[actionType] = handler
}

// SetOffline records the disconnect. The grace timer keeps running across
// repeated disconnect signals; only a reconnect resets it.
func (s *queueServiceImpl) SetOffline(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offlineSince != nil {
		return nil
	}
	now := time.Now().UTC()
	if err := s.store.SetOfflineSince(ctx, now); err != nil {
		return err
	}
	s.offlineSince = &now
	s.LogInfo(ctx, "Terminal offline, grace window started",
		slog.Duration("grace_window", s.graceWindow))
	return nil
}

// SetOnline records the reconnect and clears the grace timer.
func (s *queueServiceImpl) SetOnline(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offlineSince == nil {
		return nil
	}
	if err := s.store.ClearOfflineSince(ctx); err != nil {
		return err
	}
	s.offlineSince = nil
	s.LogInfo(ctx, "Terminal back online, grace timer cleared")
	return nil
}

// Connectivity returns the current state, accounting for grace expiry.
func (s *queueServiceImpl) Connectivity() portssvc.ConnectivityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectivityLocked()
}

func (s *queueServiceImpl) connectivityLocked() portssvc.ConnectivityState {
	if s.offlineSince == nil {
		return portssvc.ConnOnline
	}
	if time.Since(*s.offlineSince) >= s.graceWindow {
		return portssvc.ConnOfflineReadOnly
	}
	return portssvc.ConnOffline
}

// Enqueue durably records an action for later replay. Already-queued actions
// stay pending past grace expiry; only new mutations are rejected.
func (s *queueServiceImpl) Enqueue(ctx context.Context, actionType domain.ActionType, target string, payload json.RawMessage) (*domain.QueuedAction, error) {
	s.mu.Lock()
	state := s.connectivityLocked()
	_, handlerKnown := s.handlers[actionType]
	s.mu.Unlock()

	if state == portssvc.ConnOfflineReadOnly {
		return nil, fmt.Errorf("grace window expired, reconnect required: %w", apperrors.ErrReadOnly)
	}
	if !handlerKnown {
		return nil, fmt.Errorf("no handler for action type %q: %w", actionType, apperrors.ErrValidation)
	}

	action := domain.QueuedAction{
		ActionID:   uuid.NewString(),
		ActionType: actionType,
		Target:     target,
		Payload:    payload,
		Status:     domain.QueuedPending,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := s.store.AppendAction(ctx, action); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Action queued for replay",
		slog.String("action_id", action.ActionID),
		slog.String("action_type", string(actionType)),
		slog.String("target", target))
	return &action, nil
}

// Pending lists the currently queued actions in enqueue order.
func (s *queueServiceImpl) Pending(ctx context.Context) ([]domain.QueuedAction, error) {
	return s.store.ListActions(ctx)
}

// RetryQueue replays queued actions strictly in enqueue order, one at a
// time. Delivery is at-least-once: an action is removed only after its
// handler confirms success, so a lost response leads to redelivery and
// handlers must be idempotent. A failure ends the pass because later actions
// may be causally dependent on the failed one.
func (s *queueServiceImpl) RetryQueue(ctx context.Context) (int, error) {
	if !s.retryMu.TryLock() {
		// A pass is already in flight; coalesce.
		return 0, nil
	}
	defer s.retryMu.Unlock()

	actions, err := s.store.ListActions(ctx)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, action := range actions {
		if err := s.backoffBeforeRetry(ctx, action); err != nil {
			return delivered, err
		}

		s.mu.Lock()
		handler := s.handlers[action.ActionType]
		s.mu.Unlock()
		if handler == nil {
			return delivered, fmt.Errorf("no handler for action type %q: %w", action.ActionType, apperrors.ErrValidation)
		}

		if action.Status == domain.QueuedFailed {
			if err := s.store.MarkActionRetrying(ctx, action.ActionID); err != nil {
				return delivered, err
			}
			action.Status = domain.QueuedRetrying
		}

		if err := handler(ctx, action); err != nil {
			retries := action.RetryCount + 1
			s.LogWarn(ctx, "Queued action delivery failed",
				slog.String("action_id", action.ActionID),
				slog.String("action_type", string(action.ActionType)),
				slog.Int("retry_count", retries),
				slog.String("error", err.Error()))
			if markErr := s.store.MarkActionFailed(ctx, action.ActionID, retries); markErr != nil {
				s.LogError(ctx, markErr, "Failed to persist retry count",
					slog.String("action_id", action.ActionID))
			}
			return delivered, nil
		}

		if err := s.store.DeleteAction(ctx, action.ActionID); err != nil {
			// The action was applied but not removed; the next pass will
			// redeliver it, which the idempotent handler absorbs.
			s.LogError(ctx, err, "Failed to remove delivered action",
				slog.String("action_id", action.ActionID))
			return delivered, err
		}
		delivered++
	}
	return delivered, nil
}

// backoffBeforeRetry sleeps an exponentially growing, fully-jittered delay
// before re-attempting a previously failed action. Many terminals reconnect
// at once after an outage; jitter spreads their replay load.
func (s *queueServiceImpl) backoffBeforeRetry(ctx context.Context, action domain.QueuedAction) error {
	if action.Status != domain.QueuedFailed || action.RetryCount == 0 || s.retryBaseDelay <= 0 {
		return nil
	}
	delay := s.retryBaseDelay << uint(action.RetryCount-1)
	if delay > s.retryMaxDelay || delay <= 0 {
		delay = s.retryMaxDelay
	}
	jittered := time.Duration(rand.Int63n(int64(delay) + 1))
	select {
	case <-time.After(jittered):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
