package canceltoken_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	canceltoken "github.com/ethereum/go-canceltoken"
)

func TestFutureSettlesOnce(t *testing.T) {
	t.Parallel()

	fut := canceltoken.NewFuture()
	assert.False(t, isClosed(fut.Done()))

	assert.True(t, fut.SetResult("first"))
	assert.True(t, isClosed(fut.Done()))

	// later settles lose
	assert.False(t, fut.SetResult("second"))
	assert.False(t, fut.SetError(errors.New("late")))
	fut.Cancel()

	v, err := fut.Result()
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestFutureSetError(t *testing.T) {
	t.Parallel()

	testErr := errors.New("boom")
	fut := canceltoken.NewFuture()
	assert.True(t, fut.SetError(testErr))

	_, err := fut.Result()
	require.ErrorIs(t, err, testErr)
}

func TestFutureCancel(t *testing.T) {
	t.Parallel()

	fut := canceltoken.NewFuture()
	fut.Cancel()
	assert.True(t, isClosed(fut.Done()))

	_, err := fut.Result()
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunResult(t *testing.T) {
	t.Parallel()

	op := canceltoken.Run(func(ctx context.Context) (any, error) {
		return 42, nil
	})

	awaitClosed(t, op.Done())
	v, err := op.Result()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRunError(t *testing.T) {
	t.Parallel()

	testErr := errors.New("boom")
	op := canceltoken.Run(func(ctx context.Context) (any, error) {
		return nil, testErr
	})

	awaitClosed(t, op.Done())
	_, err := op.Result()
	require.ErrorIs(t, err, testErr)
}

func TestRunCancel(t *testing.T) {
	t.Parallel()

	ctxDone := make(chan struct{})
	op := canceltoken.Run(func(ctx context.Context) (any, error) {
		<-ctx.Done()
		close(ctxDone)
		return nil, ctx.Err()
	})

	op.Cancel()

	// the handle settles immediately with context.Canceled...
	awaitClosed(t, op.Done())
	_, err := op.Result()
	require.ErrorIs(t, err, context.Canceled)

	// ...and the function's context was cancelled so it can wind down
	awaitClosed(t, ctxDone)
}

func TestRunWithCancellableWait(t *testing.T) {
	t.Parallel()

	tok := canceltoken.New("token")
	op := canceltoken.Run(func(ctx context.Context) (any, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Second):
			return "too late", nil
		}
	})

	tok.Trigger()
	_, err := tok.CancellableWait(time.Second, op)

	var cancelled *canceltoken.CancelledError
	require.ErrorAs(t, err, &cancelled)

	// the losing operation's context was cancelled, so it settles too
	awaitClosed(t, op.Done())
}
