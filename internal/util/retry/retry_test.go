package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast() Option { return WithInitialDelay(time.Millisecond) }

func TestDo_Success(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	}, fast())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_MaxRetries(t *testing.T) {
	t.Parallel()

	persistent := errors.New("persistent")
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return persistent
	}, WithMaxRetries(2), fast())

	require.ErrorIs(t, err, persistent)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "giving up after 3 attempts")
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	t.Parallel()

	rejected := errors.New("rejected")
	calls := 0
	err := Do(context.Background(), func(context.Context) error {
		calls++
		return Fatal(rejected)
	}, fast())

	require.ErrorIs(t, err, rejected)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("temporary")
	}, WithInitialDelay(time.Hour))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_DelayIsCapped(t *testing.T) {
	t.Parallel()

	start := time.Now()
	calls := 0
	_ = Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("x")
	}, WithMaxRetries(3), WithInitialDelay(time.Millisecond), WithMultiplier(100), WithMaxDelay(5*time.Millisecond))

	assert.Equal(t, 4, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFatal(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Fatal(nil))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.Equal(t, "boom", Fatal(errors.New("boom")).Error())
}
