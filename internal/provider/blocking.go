package provider

import (
	"context"
	"fmt"
	"time"
)

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprint(e.value)
}

// blocking runs fn to completion on its own goroutine and waits for it, giving up when ctx
// is done or timeout passes. A panic in fn comes back as a *panicError.
func blocking(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &panicError{value: r}
			}
		}()
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
