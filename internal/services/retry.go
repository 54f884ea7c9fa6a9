package services

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/justsurfingit/lead-scout/internal/provider"
)

// retry executes f with exponential backoff. It stops early when ctx is
// done or f fails with an error that retrying cannot fix.
func retry(ctx context.Context, attempts int, sleep time.Duration, f func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = f(ctx)
		if err == nil {
			return nil
		}
		if isPermanent(err) || i == attempts-1 {
			break
		}

		zap.L().Warn("provider call failed, retrying",
			zap.Int("attempt", i+1),
			zap.Duration("backoff", sleep),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return eris.Wrap(ctx.Err(), "services: retry aborted")
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return eris.Wrapf(err, "services: failed after %d attempts", attempts)
}

func isPermanent(err error) bool {
	return eris.Is(err, provider.ErrEmptyResponse) ||
		eris.Is(err, context.Canceled)
}
