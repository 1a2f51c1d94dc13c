package canceltoken

import (
	"context"
	"sync"
	"time"
)

// Wait returns a channel that is closed once t reports triggered, by its own
// [Token.Trigger] call or by any chained token's, however deep the chain.
//
// If t is already triggered, the returned channel is already closed. The
// channel is shared between Wait calls on the same token, and the goroutines
// watching the chained tokens retire as soon as it closes.
//
// The channel observes the chain set as of the first Wait call on t; chains
// added later are seen by [Token.Triggered], [Token.Err], and by waits on
// tokens that haven't handed out a channel yet. See [Token.Chain].
func (t *Token) Wait() <-chan struct{} {
	t.mu.Lock()
	if t.waitCh != nil {
		ch := t.waitCh
		t.mu.Unlock()
		return ch
	}
	t.mu.Unlock()

	// Traversal locks each node, so we can't hold our own lock across it.
	sources := t.reachable()
	for _, tok := range sources {
		if isClosed(tok.done) {
			return alwaysClosed
		}
	}

	// With no chains there's nothing to fan in; the token's own channel is
	// the wait channel, and Trigger closes it before returning.
	if len(sources) == 1 {
		return t.done
	}

	ch := make(chan struct{})

	t.mu.Lock()
	if t.waitCh != nil {
		// lost a race against another first Wait call
		ch := t.waitCh
		t.mu.Unlock()
		return ch
	}
	t.waitCh = ch
	t.mu.Unlock()

	var once sync.Once
	for _, tok := range sources {
		go func(src *Token) {
			select {
			case <-src.done:
				once.Do(func() { close(ch) })
			case <-ch:
				// another source fired first
			}
		}(tok)
	}

	return ch
}

// TryWait waits for t to trigger, returning early with ctx.Err() if the
// context is done first, and nil once t is triggered.
//
// If the context is already done when TryWait is called, this method will
// always return the context's error.
func (t *Token) TryWait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.Wait():
			return nil
		}
	}
}

// Context returns a context derived from parent that is cancelled when t
// triggers (or when parent is done, as usual).
//
// The returned CancelFunc releases the bridging goroutine; call it once the
// context is no longer needed, exactly as with [context.WithCancel].
func (t *Token) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-t.Wait():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// CancellableWait waits for every operation in ops to settle, racing that
// join against t triggering and against the timeout (zero or negative means
// no deadline). The race is against cancellation and the clock, not between
// the operations: all of them must settle for the operations branch to win.
//
// On success the results are returned in ops order. An operation that
// settled with an error still counts as settled, and its error (the first in
// ops order) is returned unchanged in place of the results.
//
// If t triggers before every operation settles, CancellableWait calls Cancel
// on each operation still pending and returns a [*CancelledError]. If the
// deadline elapses first, it does the same and returns a [*TimeoutError].
// When several outcomes are ready on the same wake-up, completion of all
// operations wins over cancellation, and cancellation wins over timeout.
//
// With no operations, CancellableWait reduces to waiting for t itself,
// racing the timeout; it returns (nil, nil) once t triggers.
func (t *Token) CancellableWait(timeout time.Duration, ops ...Pending) ([]any, error) {
	fired := t.Wait()

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	if len(ops) == 0 {
		select {
		case <-fired:
			return nil, nil
		case <-timeoutCh:
			if t.Triggered() {
				return nil, nil
			}
			return nil, &TimeoutError{Token: t.name, Duration: timeout}
		}
	}

	// Fan settlement of each operation into one wake-up channel. Each
	// watcher sends exactly once, so the buffer never blocks them. Counting
	// is done by polling the operations directly (drain), not by the
	// wake-ups: that keeps the precedence checks below deterministic even
	// when a watcher hasn't been scheduled yet. The watchers retire via stop
	// once we return.
	wakeups := make(chan struct{}, len(ops))
	stop := make(chan struct{})
	defer close(stop)

	for _, op := range ops {
		go func(done <-chan struct{}) {
			select {
			case <-done:
				wakeups <- struct{}{}
			case <-stop:
			}
		}(op.Done())
	}

	pending := len(ops)
	counted := make([]bool, len(ops))
	drain := func() {
		for i, op := range ops {
			if !counted[i] && isClosed(op.Done()) {
				counted[i] = true
				pending--
			}
		}
	}

	for {
		// completion of every operation outranks cancellation, which in turn
		// outranks the deadline
		drain()
		if pending == 0 {
			return collectResults(ops)
		}
		if err := t.Err(); err != nil {
			abandon(ops)
			return nil, err
		}

		select {
		case <-wakeups:
			// next pass counts whatever settled
		case <-fired:
			// next pass re-checks settlements before reporting cancellation
		case <-timeoutCh:
			drain()
			if pending == 0 {
				return collectResults(ops)
			}
			if err := t.Err(); err != nil {
				abandon(ops)
				return nil, err
			}
			abandon(ops)
			return nil, &TimeoutError{Token: t.name, Duration: timeout}
		}
	}
}

func collectResults(ops []Pending) ([]any, error) {
	results := make([]any, len(ops))
	for i, op := range ops {
		v, err := op.Result()
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// abandon cancels every operation that hasn't settled yet.
func abandon(ops []Pending) {
	for _, op := range ops {
		if !isClosed(op.Done()) {
			op.Cancel()
		}
	}
}
