package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallel_Success(t *testing.T) {
	t.Parallel()

	var count atomic.Int32
	inc := func(context.Context) error {
		count.Add(1)
		return nil
	}

	err := RunParallel(context.Background(), []Task{
		{Name: "a", Func: inc},
		{Name: "b", Func: inc},
		{Name: "c", Func: inc},
	})

	require.NoError(t, err)
	assert.Equal(t, int32(3), count.Load())
}

func TestRunParallel_Empty(t *testing.T) {
	t.Parallel()

	require.NoError(t, RunParallel(context.Background(), nil))
}

func TestRunParallel_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	errA := errors.New("a failed")
	errC := errors.New("c failed")
	var ran atomic.Int32

	err := RunParallel(context.Background(), []Task{
		{Name: "a", Func: func(context.Context) error { ran.Add(1); return errA }},
		{Name: "b", Func: func(context.Context) error { ran.Add(1); return nil }},
		{Name: "c", Func: func(context.Context) error { ran.Add(1); return errC }},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)
	assert.Equal(t, "a: a failed\nc: c failed", err.Error())
	assert.Equal(t, int32(3), ran.Load())
}

func TestRunParallel_PassesContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	err := RunParallel(ctx, []Task{{Name: "ctx", Func: func(ctx context.Context) error {
		if ctx.Value(key{}) != "v" {
			return errors.New("missing value")
		}
		return nil
	}}})
	require.NoError(t, err)
}
