package encoder

import "context"

type outcome[T any] struct {
	val T
	err error
}

// await runs fn on its own goroutine and suspends until it completes or ctx
// is done. A cancelled wait returns ctx.Err(); fn still runs to completion in
// the background and its result is dropped.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	done := make(chan outcome[T], 1)
	go func() {
		v, err := fn()
		done <- outcome[T]{val: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case o := <-done:
		return o.val, o.err
	}
}
