// Package sqlite implements the local durable queue storage on SQLite. The
// queue is terminal-local state: it survives process restarts but is never
// shared across terminals.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hotelops/folio-core/internal/apperrors"
	"github.com/hotelops/folio-core/internal/core/domain"
	portsrepo "github.com/hotelops/folio-core/internal/core/ports/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS queued_actions (
	action_id   TEXT PRIMARY KEY,
	action_type TEXT NOT NULL,
	target      TEXT NOT NULL,
	payload     BLOB NOT NULL,
	status      TEXT NOT NULL,
	retry_count INTEGER NOT NULL DEFAULT 0,
	enqueued_at TIMESTAMP NOT NULL,
	seq         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_queued_actions_seq ON queued_actions(seq);

CREATE TABLE IF NOT EXISTS queue_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const offlineSinceKey = "offline_since"

// QueueRepository is the SQLite-backed QueueStorageFacade. Opened in WAL mode
// for crash recovery; a mutex serializes writers since SQLite allows only one
// at a time.
type QueueRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewQueueRepository opens (or creates) the queue database at path and
// migrates its schema.
func NewQueueRepository(path string) (*QueueRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open queue db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate queue db: %w", err)
	}
	return &QueueRepository{db: db}, nil
}

// Ensure QueueRepository implements portsrepo.QueueStorageFacade
var _ portsrepo.QueueStorageFacade = (*QueueRepository)(nil)

// Close releases the underlying database handle.
func (r *QueueRepository) Close() error {
	return r.db.Close()
}

// AppendAction durably records a queued action at the tail of the queue.
func (r *QueueRepository) AppendAction(ctx context.Context, action domain.QueuedAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO queued_actions (action_id, action_type, target, payload, status, retry_count, enqueued_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM queued_actions))`,
		action.ActionID,
		string(action.ActionType),
		action.Target,
		[]byte(action.Payload),
		string(action.Status),
		action.RetryCount,
		action.EnqueuedAt.UTC(),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append queued action "+action.ActionID, err)
	}
	return nil
}

// ListActions retrieves all queued actions in enqueue order.
func (r *QueueRepository) ListActions(ctx context.Context) ([]domain.QueuedAction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT action_id, action_type, target, payload, status, retry_count, enqueued_at
		FROM queued_actions ORDER BY seq ASC`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list queued actions", err)
	}
	defer rows.Close()

	var actions []domain.QueuedAction
	for rows.Next() {
		var a domain.QueuedAction
		var actionType, status string
		var payload []byte
		if err := rows.Scan(&a.ActionID, &actionType, &a.Target, &payload, &status, &a.RetryCount, &a.EnqueuedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan queued action", err)
		}
		a.ActionType = domain.ActionType(actionType)
		a.Status = domain.QueuedActionStatus(status)
		a.Payload = payload
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate queued actions", err)
	}
	return actions, nil
}

// MarkActionRetrying records that a redelivery attempt is in flight.
func (r *QueueRepository) MarkActionRetrying(ctx context.Context, actionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE queued_actions SET status = ? WHERE action_id = ?`,
		string(domain.QueuedRetrying), actionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark queued action retrying", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkActionFailed records a delivery failure.
func (r *QueueRepository) MarkActionFailed(ctx context.Context, actionID string, retryCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE queued_actions SET status = ?, retry_count = ? WHERE action_id = ?`,
		string(domain.QueuedFailed), retryCount, actionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark queued action failed", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAction removes an action after confirmed delivery.
func (r *QueueRepository) DeleteAction(ctx context.Context, actionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM queued_actions WHERE action_id = ?`, actionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete queued action", err)
	}
	return nil
}

// OfflineSince returns the persisted disconnect time, or nil when not offline.
func (r *QueueRepository) OfflineSince(ctx context.Context) (*time.Time, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM queue_meta WHERE key = ?`, offlineSinceKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to read offline marker", err)
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, apperrors.NewAppError(500, "corrupt offline marker", err)
	}
	return &t, nil
}

// SetOfflineSince persists the disconnect time.
func (r *QueueRepository) SetOfflineSince(ctx context.Context, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO queue_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		offlineSinceKey, t.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return apperrors.NewAppError(500, "failed to persist offline marker", err)
	}
	return nil
}

// ClearOfflineSince removes the disconnect marker.
func (r *QueueRepository) ClearOfflineSince(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM queue_meta WHERE key = ?`, offlineSinceKey); err != nil {
		return apperrors.NewAppError(500, "failed to clear offline marker", err)
	}
	return nil
}
