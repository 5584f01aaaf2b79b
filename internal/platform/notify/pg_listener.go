package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pgChannel is the Postgres NOTIFY channel written by the row-change triggers
// on folio_charges and payments.
const pgChannel = "folio_changes"

// PGListener is a Channel backed by Postgres LISTEN/NOTIFY. Store-side
// triggers publish a JSON payload describing each row change; the listener
// fans it out to matching subscriptions. A reconnect loop with capped
// exponential backoff keeps the LISTEN connection alive; events sent while
// disconnected are lost, which is within the channel's best-effort contract.
type PGListener struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	bus    *Bus
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPGListener creates a listener on the given pool. Call Start to begin
// receiving notifications.
func NewPGListener(pool *pgxpool.Pool, logger *slog.Logger) *PGListener {
	return &PGListener{
		pool:   pool,
		logger: logger,
		bus:    NewBus(),
		done:   make(chan struct{}),
	}
}

var _ Channel = (*PGListener)(nil)

// Subscribe registers a handler; see Channel.
func (l *PGListener) Subscribe(ctx context.Context, table string, filter string, handler Handler) (Subscription, error) {
	return l.bus.Subscribe(ctx, table, filter, handler)
}

// Start launches the background LISTEN loop.
func (l *PGListener) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	go l.run(runCtx)
}

// Stop cancels the LISTEN loop and waits for it to exit.
func (l *PGListener) Stop() {
	if l.cancel != nil {
		l.cancel()
		<-l.done
	}
}

func (l *PGListener) run(ctx context.Context) {
	defer close(l.done)

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		if err := l.listenOnce(ctx); err != nil && ctx.Err() == nil {
			l.logger.Warn("notify listener disconnected, reconnecting",
				slog.String("error", err.Error()),
				slog.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
	}
}

// listenOnce holds a dedicated connection, LISTENs and dispatches until the
// connection drops or the context is cancelled.
func (l *PGListener) listenOnce(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgChannel); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var event Event
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			l.logger.Warn("notify listener dropped malformed payload",
				slog.String("error", err.Error()))
			continue
		}
		l.bus.Publish(event)
	}
}
