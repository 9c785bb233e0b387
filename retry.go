package replicas

import (
	"context"
	"errors"
	"io"

	"github.com/cenkalti/backoff/v4"
)

// Retrying wraps p so that a failing Handle call is retried according to
// the back-off policy returned by newBackOff, or an exponential back-off
// if newBackOff is nil. ErrBackendUnavailable is never retried.
//
// The returned provider gives up with the last error of p, or with ctx's
// error once ctx is done. Closing it closes p if p is an io.Closer.
func Retrying[H any](p Provider[H], newBackOff func() backoff.BackOff) Provider[H] {
	if newBackOff == nil {
		newBackOff = func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		}
	}
	return &retryingProvider[H]{provider: p, newBackOff: newBackOff}
}

type retryingProvider[H any] struct {
	provider   Provider[H]
	newBackOff func() backoff.BackOff
}

var _ io.Closer = (*retryingProvider[io.Closer])(nil)

func (p *retryingProvider[H]) Handle(ctx context.Context) (H, error) {
	var handle H
	err := backoff.Retry(func() error {
		h, err := p.provider.Handle(ctx)
		if err != nil {
			if errors.Is(err, ErrBackendUnavailable) {
				return backoff.Permanent(err)
			}
			return err
		}
		handle = h
		return nil
	}, backoff.WithContext(p.newBackOff(), ctx))
	return handle, err
}

func (p *retryingProvider[H]) Close() error {
	if c, ok := p.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
