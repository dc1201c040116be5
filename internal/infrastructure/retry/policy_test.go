package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	t.Run("doubles per attempt", func(t *testing.T) {
		assert.Equal(t, 100*time.Millisecond, p.Delay(0))
		assert.Equal(t, 200*time.Millisecond, p.Delay(1))
		assert.Equal(t, 400*time.Millisecond, p.Delay(2))
	})

	t.Run("caps at max delay", func(t *testing.T) {
		assert.Equal(t, time.Second, p.Delay(10))
	})

	t.Run("jitter stays within fraction", func(t *testing.T) {
		j := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Jitter: 0.5}
		for i := 0; i < 20; i++ {
			d := j.Delay(0)
			assert.GreaterOrEqual(t, d, 100*time.Millisecond)
			assert.LessOrEqual(t, d, 150*time.Millisecond)
		}
	})
}

func TestDo(t *testing.T) {
	fast := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("returns on first success", func(t *testing.T) {
		calls := 0
		err := fast.Do(context.Background(), func() error {
			calls++
			return nil
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := fast.Do(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error after exhaustion", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("still broken")
		err := fast.Do(context.Background(), func() error {
			calls++
			return wantErr
		}, nil)
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		terminal := errors.New("terminal")
		err := fast.Do(context.Background(), func() error {
			calls++
			return terminal
		}, func(err error) bool { return false })
		assert.ErrorIs(t, err, terminal)
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context stops backoff wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := fast.Do(ctx, func() error {
			calls++
			cancel()
			return errors.New("transient")
		}, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
