package retry

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"
)

var (
	DefaultRetry    = Retry{Base: 1, Cap: 8, Tries: 4}
	ErrOutOfRetries = errors.New("tried too many times")
)

type Retry struct {
	Base  int // Min amount of time to sleep per iteration
	Cap   int // Max amount of time to sleep per iteration
	Tries int // Number of times to retry
}

// Sleep waits for a random backoff bounded by Cap, or until ctx is done.
func (r Retry) Sleep(ctx context.Context, i int) {
	// powerInt returns the base-x exponential of y.
	powerInt := func(x, y int) int {
		ret := 1
		for i := 0; i < y; i++ {
			ret *= x
		}
		return ret
	}

	// minInt returns the minimum of two ints.
	minInt := func(x, y int) int {
		if x < y {
			return x
		}
		return y
	}

	upper := minInt(r.Cap, r.Base*powerInt(2, i))
	if upper <= 0 {
		return
	}
	sleepFor := time.Duration(rand.Intn(upper*1000)) * time.Millisecond

	timer := time.NewTimer(sleepFor)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// RetryFunc calls f until it succeeds, shouldRetry rejects the error, or the tries run out.
func RetryFunc(ctx context.Context, f func(ctx context.Context) error, shouldRetry func(error) bool, r Retry) error {
	var err error
	for i := 0; i < r.Tries; i++ {
		err = f(ctx)
		if err == nil {
			return nil
		}

		if !shouldRetry(err) {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.Sleep(ctx, i)
	}
	return ErrOutOfRetries
}

// IsRateLimited reports whether an RPC error looks like a provider rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests") || strings.Contains(msg, "rate limit")
}
