// Package loop drives a task repeatedly until it asks to stop.
//
// A task returns its next state together with a [Next] decision:
// [Continue] sleeps for an interval and runs the task again, [Break] ends
// the loop with an optional error. Context cancellation always wins over a
// pending sleep.
package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells [Start] what to do after a task run.
// The zero value means "continue immediately".
type Next struct {
	err      error
	stop     bool
	interval time.Duration
}

func (n Next) String() string {
	switch {
	case n.err != nil:
		return fmt.Sprintf("break: %v", n.err)
	case n.stop:
		return "break"
	default:
		return fmt.Sprintf("continue after %s", n.interval)
	}
}

// Continue runs the task again after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break stops the loop. A nil err is a clean stop.
func Break(err error) Next {
	return Next{stop: true, err: err}
}

// Task is one iteration of a loop. It receives the state returned by the
// previous iteration (or the initial state).
type Task[T any] func(ctx context.Context, state T) (T, Next)

// Option configures a loop run.
type Option func(*options)

type options struct {
	perRunTimeout time.Duration
}

// WithTimeout bounds each task run with its own deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.perRunTimeout = d
	}
}

// Start runs task until it returns Break or ctx is done.
//
// The returned state is the last one the task produced. When the loop ends
// because of ctx, the error is ctx.Err() and the state is the last state
// that was accepted by a Continue.
func Start[T any](ctx context.Context, init T, task Task[T], opts ...Option) (T, error) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := ctx.Err(); err != nil {
		return init, err
	}

	state := init
	for {
		next, n := runOnce(ctx, cfg, task, state)
		if n.stop {
			return next, n.err
		}
		state = next

		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return state, ctx.Err()
		case <-timer.C:
		}
	}
}

func runOnce[T any](ctx context.Context, cfg *options, task Task[T], state T) (T, Next) {
	if cfg.perRunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.perRunTimeout)
		defer cancel()
	}
	return task(ctx, state)
}
