package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Strategy determines whether an action should be attempted again. Strategies
// may block, but must return once ctx is done.
type Strategy func(ctx context.Context, attempts uint, err error) bool

// Limit returns a strategy that limits the total number of attempts.
func Limit(maxAttempts uint) Strategy {
	return func(_ context.Context, attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors returns a strategy that only retries the provided errors,
// including when wrapped.
func RetriableErrors(retriableErrors ...error) Strategy {
	return func(_ context.Context, _ uint, err error) bool {
		for _, e := range retriableErrors {
			if errors.Is(err, e) {
				return true
			}
		}
		return false
	}
}

// NonRetriableErrors returns a strategy that never retries the provided errors.
func NonRetriableErrors(nonRetriableErrors ...error) Strategy {
	return func(_ context.Context, _ uint, err error) bool {
		for _, e := range nonRetriableErrors {
			if errors.Is(err, e) {
				return false
			}
		}
		return true
	}
}

// ExponentialBackoff returns a strategy that sleeps baseDelay * 2^(attempts-1),
// capped at maxDelay, with up to jitter (a fraction of the delay) applied in
// either direction. It stops retrying if ctx is done while sleeping.
func ExponentialBackoff(baseDelay, maxDelay time.Duration, jitter float64) Strategy {
	return func(ctx context.Context, attempts uint, _ error) bool {
		delay := exponentialDelay(baseDelay, maxDelay, attempts)
		if jitter > 0 {
			delay = time.Duration(float64(delay) * (1 + (rand.Float64()*jitter*2 - jitter)))
		}
		return sleeperImpl.Sleep(ctx, delay)
	}
}

func exponentialDelay(baseDelay, maxDelay time.Duration, attempts uint) time.Duration {
	delay := float64(baseDelay) * math.Pow(2, float64(attempts-1))
	return time.Duration(math.Min(float64(maxDelay), delay))
}

type sleeper interface {
	// Sleep returns false if ctx was done before d elapsed.
	Sleep(ctx context.Context, d time.Duration) bool
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

var sleeperImpl sleeper = realSleeper{}
