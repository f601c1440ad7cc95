package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Backends started alongside the service (docker compose) may still be
// booting, so the first ping is retried a few times with doubling waits.
var (
	pingAttempts = 4
	pingDelay    = 500 * time.Millisecond
)

func pingWithRetry(ctx context.Context, log zerolog.Logger, backend string, ping func(context.Context) error) error {
	delay := pingDelay
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = ping(ctx); err == nil {
			return nil
		}
		if attempt == pingAttempts {
			break
		}

		log.Warn().Err(err).
			Str("backend", backend).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("Storage backend not reachable yet")

		select {
		case <-ctx.Done():
			return fmt.Errorf("ping %s: %w", backend, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("ping %s after %d attempts: %w", backend, pingAttempts, err)
}
