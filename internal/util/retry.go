package util

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn until it succeeds, giving up after the given number of
// attempts. The wait between attempts starts at delay and doubles each
// time; a cancelled context cuts the wait short. The final error is
// wrapped with the attempt count.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if attempt >= attempts {
			return fmt.Errorf("after %d attempts: %w", attempt, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
