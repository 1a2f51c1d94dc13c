package canceltoken

import (
	"context"
	"sync"
)

// Pending is a handle on an operation that is already in flight. The host
// application starts operations and owns their resources; this package only
// races them via [Token.CancellableWait].
type Pending interface {
	// Done returns a channel that is closed once the operation has settled,
	// whether with a result, an error, or cancellation.
	Done() <-chan struct{}

	// Result returns the operation's outcome. It is only meaningful after
	// the Done channel has closed.
	Result() (any, error)

	// Cancel requests that the operation be abandoned. It must be safe to
	// call on an already-settled operation, where it has no effect. Actual
	// resource cleanup is the operation's own business.
	Cancel()
}

// Future is a [Pending] settled by hand, for operations whose completion is
// reported from elsewhere.
//
// A Future settles at most once; whichever of [Future.SetResult],
// [Future.SetError], or [Future.Cancel] runs first wins.
type Future struct {
	mu   sync.Mutex
	done chan struct{}
	val  any
	err  error
}

// NewFuture creates an unsettled Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Done returns a channel that is closed once the Future has settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled value and error. Before the Future settles,
// both are zero.
func (f *Future) Result() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val, f.err
}

// SetResult settles the Future with a value, reporting whether it did (false
// if the Future had already settled).
func (f *Future) SetResult(v any) bool {
	return f.settle(v, nil)
}

// SetError settles the Future with an error, reporting whether it did (false
// if the Future had already settled).
func (f *Future) SetError(err error) bool {
	return f.settle(nil, err)
}

// Cancel settles the Future with context.Canceled, if it hasn't settled yet.
func (f *Future) Cancel() {
	f.settle(nil, context.Canceled)
}

func (f *Future) settle(v any, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if isClosed(f.done) {
		return false
	}

	f.val = v
	f.err = err
	close(f.done)
	return true
}

// Run starts fn in its own goroutine and returns a [Pending] handle for it.
//
// Cancelling the handle cancels the context passed to fn and settles the
// handle with context.Canceled; winding down from there is fn's job, and any
// late return value is discarded.
func Run(fn func(ctx context.Context) (any, error)) Pending {
	ctx, cancel := context.WithCancel(context.Background())
	p := &startedOp{Future: NewFuture(), cancel: cancel}

	go func() {
		defer cancel()

		v, err := fn(ctx)
		if err != nil {
			p.SetError(err)
		} else {
			p.SetResult(v)
		}
	}()

	return p
}

type startedOp struct {
	*Future
	cancel context.CancelFunc
}

func (p *startedOp) Cancel() {
	p.cancel()
	p.Future.Cancel()
}
