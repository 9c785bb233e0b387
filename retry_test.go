package replicas_test

import (
	"context"
	"io"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/go-replicas"
)

// flaky fails the first failures Handle calls.
type flaky struct {
	failures int
	calls    int
	err      error
	handle   *backend
}

func (f *flaky) Handle(context.Context) (*backend, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.handle, nil
}

func noWait(retries uint64) func() backoff.BackOff {
	return func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
	}
}

func TestRetryingRecovers(t *testing.T) {
	b := newBackend("a")
	f := &flaky{failures: 2, err: errProvider, handle: b}

	h, err := replicas.Retrying[*backend](f, noWait(5)).Handle(context.Background())
	require.NoError(t, err)
	require.Same(t, b, h)
	require.Equal(t, 3, f.calls)
}

func TestRetryingGivesUp(t *testing.T) {
	f := &flaky{failures: 10, err: errProvider}

	h, err := replicas.Retrying[*backend](f, noWait(2)).Handle(context.Background())
	require.ErrorIs(t, err, errProvider)
	require.Nil(t, h)
	require.Equal(t, 3, f.calls)
}

func TestRetryingUnavailableIsPermanent(t *testing.T) {
	f := &flaky{failures: 10, err: replicas.ErrBackendUnavailable}

	_, err := replicas.Retrying[*backend](f, noWait(5)).Handle(context.Background())
	require.ErrorIs(t, err, replicas.ErrBackendUnavailable)
	require.Equal(t, 1, f.calls)
}

func TestRetryingCanceled(t *testing.T) {
	f := &flaky{failures: 10, err: errProvider}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := replicas.Retrying[*backend](f, nil).Handle(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, f.calls)
}

func TestRetryingInPool(t *testing.T) {
	primary := newBackend(replicas.PrimaryBackend)
	f := &flaky{failures: 1, err: errProvider, handle: primary}
	pool := replicas.NewPool[*backend](replicas.Retrying[*backend](f, noWait(1)), nil, testRoles, replicas.Opts{})

	require.NoError(t, pool.Do(context.Background(), "write", run("write")))
	require.Equal(t, []string{"write"}, primary.executed())
	require.Equal(t, 2, f.calls)
}

func TestRetryingClosedWithPool(t *testing.T) {
	primary := newBackend(replicas.PrimaryBackend)
	replica := newBackend("a")
	pool := replicas.NewPool[*backend](
		replicas.Retrying[*backend](replicas.Static(primary), noWait(1)),
		map[string]replicas.Provider[*backend]{
			"a": replicas.Retrying[*backend](replicas.Static(replica), noWait(1)),
		},
		testRoles, replicas.Opts{})

	require.NoError(t, pool.Close())
	require.Equal(t, 1, primary.closed)
	require.Equal(t, 1, replica.closed)
}

func TestRetryingCloseWithoutCloser(t *testing.T) {
	f := &flaky{handle: newBackend("a")}
	p := replicas.Retrying[*backend](f, noWait(1))

	c, ok := p.(io.Closer)
	require.True(t, ok)
	require.NoError(t, c.Close())
}
