package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryFunc(t *testing.T) {
	noWait := Retry{Base: 0, Cap: 0, Tries: 3}
	errLimited := errors.New("429 Too Many Requests")
	errFatal := errors.New("execution reverted")

	t.Run("retries rate limited calls until success", func(t *testing.T) {
		calls := 0
		err := RetryFunc(context.Background(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errLimited
			}
			return nil
		}, IsRateLimited, noWait)
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		err := RetryFunc(context.Background(), func(ctx context.Context) error {
			calls++
			return errFatal
		}, IsRateLimited, noWait)
		assert.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the configured tries", func(t *testing.T) {
		calls := 0
		err := RetryFunc(context.Background(), func(ctx context.Context) error {
			calls++
			return errLimited
		}, IsRateLimited, noWait)
		assert.ErrorIs(t, err, ErrOutOfRetries)
		assert.Equal(t, 3, calls)
	})
}
