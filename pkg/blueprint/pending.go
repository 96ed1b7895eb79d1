package blueprint

import "context"

// Pending is a handle for add-on work that continues after Deploy returns.
// Wait blocks until the work settles or ctx is done.
type Pending interface {
	Wait(ctx context.Context) error
}

// PendingFunc adapts a blocking wait function (for example a readiness poll)
// to the Pending interface. The function runs when the orchestrator joins
// pending completions.
type PendingFunc func(ctx context.Context) error

// Wait implements Pending.
func (f PendingFunc) Wait(ctx context.Context) error {
	return f(ctx)
}

type future struct {
	done chan struct{}
	err  error
}

// Go starts fn in a new goroutine and returns a Pending that settles with
// its result.
func Go(fn func() error) Pending {
	f := &future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.err = fn()
	}()
	return f
}

// Completed returns a Pending that has already succeeded.
func Completed() Pending {
	return Failed(nil)
}

// Failed returns a Pending that has already settled with err.
func Failed(err error) Pending {
	f := &future{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

func (f *future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
