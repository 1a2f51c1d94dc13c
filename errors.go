package canceltoken

import (
	"context"
	"fmt"
	"time"
)

// CancelledError is returned by [Token.Err] on a triggered token, and by
// [Token.CancellableWait] when the token triggers before the raced
// operations finish.
//
// It satisfies errors.Is(err, context.Canceled), so code that only speaks
// context semantics treats it correctly.
type CancelledError struct {
	// Token is the name of the token whose wait was cancelled.
	Token string
	// Fired is the name of the token whose Trigger call caused the
	// cancellation. Equal to Token unless the trigger arrived through a
	// chain.
	Fired string
	// Site is where Trigger was called, "function (file:line)", when known.
	Site string
}

func (e *CancelledError) Error() string {
	msg := fmt.Sprintf("operation cancelled: token %q triggered", e.Token)
	if e.Fired != "" && e.Fired != e.Token {
		msg += fmt.Sprintf(" via chained token %q", e.Fired)
	}
	if e.Site != "" {
		msg += " at " + e.Site
	}
	return msg
}

// Is reports context.Canceled as a match, for errors.Is interop.
func (e *CancelledError) Is(target error) bool {
	return target == context.Canceled
}

// TimeoutError is returned by [Token.CancellableWait] when its deadline
// elapses before the token triggers or the raced operations finish.
//
// It satisfies errors.Is(err, context.DeadlineExceeded).
type TimeoutError struct {
	// Token is the name of the token the wait was attached to.
	Token string
	// Duration is the deadline that elapsed.
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting with token %q", e.Duration, e.Token)
}

// Timeout reports true, following the net.Error convention.
func (e *TimeoutError) Timeout() bool {
	return true
}

// Is reports context.DeadlineExceeded as a match, for errors.Is interop.
func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}
