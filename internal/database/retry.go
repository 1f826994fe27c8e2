package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	connectAttempts = 5
	connectDelay    = time.Second
)

// connectWithRetry calls dial until it succeeds, doubling the delay between
// attempts.
func connectWithRetry(ctx context.Context, log zerolog.Logger, store string, attempts int, delay time.Duration, dial func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = dial(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		log.Warn().
			Err(err).
			Str("store", store).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("Connect failed, retrying")

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%s: %w", store, ctx.Err())
		case <-t.C:
		}
		delay *= 2
	}
	return fmt.Errorf("%s unreachable after %d attempts: %w", store, attempts, err)
}
