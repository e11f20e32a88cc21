package store

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// connectRetry controls how long NewPostgres waits for the database to accept connections.
type connectRetry struct {
	attempts int
	backoff  time.Duration
	maxDelay time.Duration
}

var defaultConnectRetry = connectRetry{
	attempts: 5,
	backoff:  250 * time.Millisecond,
	maxDelay: 5 * time.Second,
}

// do runs fn until it succeeds, fails with a non-transient error, or the
// attempts run out. The delay doubles after each attempt up to maxDelay.
func (r connectRetry) do(ctx context.Context, op string, fn func(context.Context) error) error {
	delay := r.backoff
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil || !isTransientConnErr(err) || attempt >= r.attempts || ctx.Err() != nil {
			return err
		}

		zap.L().Warn("store: retrying connection",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		delay = min(delay*2, r.maxDelay)
	}
}

// isTransientConnErr reports whether err looks like a database that is still
// starting up or briefly unreachable.
func isTransientConnErr(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	// 57P03 cannot_connect_now: the server is starting up or in recovery.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "57P03"
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection refused",
		"connection reset by peer",
		"no such host",
		"i/o timeout",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
