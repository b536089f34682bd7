package instantly

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryPolicy retries operations that failed with ErrUnavailable, using
// bounded exponential backoff with jitter. The Sleep hook is injectable so
// tests run with zero delay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      float64 // extra fraction of the delay, picked at random

	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		Jitter:      0.25,
	}
}

// ZeroDelayPolicy keeps the attempt count but sleeps nothing. Test use.
func ZeroDelayPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}
}

// Do runs op up to MaxAttempts times. Only ErrUnavailable is retried;
// auth errors and rejections return immediately.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if sleepErr := p.sleep(ctx, p.delay(attempt)); sleepErr != nil {
				return sleepErr
			}
		}

		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return err
		}
	}
	return err
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter > 0 && d > 0 {
		d += time.Duration(rand.Float64() * p.Jitter * float64(d))
	}
	return d
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
