package replicas

import (
	"context"
	"io"
)

// Conn wraps one backend handle of a Pool. It is immutable; a new Conn is
// created for every Pool.Connection call and should not outlive the
// operation it was taken for.
type Conn[H any] struct {
	handle  H
	backend string
	primary bool
	pool    *Pool[H]
}

var _ Doer[io.Closer] = (*Conn[io.Closer])(nil)

// Delegate runs fn either on the wrapped handle or on a primary handle of
// the owning pool. The decision is made on every call:
//
//   - a primary connection always uses its own handle;
//   - PrimaryRole operations use the pool's primary;
//   - ReplicaRole operations use the pool's primary while ctx is inside a
//     WithPrimary scope, and the own handle otherwise.
//
// Redirecting through a connection of a closed pool fails with ErrClosed.
// fn's error is returned unchanged, as is any error of the primary provider.
func (c *Conn[H]) Delegate(ctx context.Context, role Role, op string,
	fn func(context.Context, H) error) error {
	if role != PrimaryRole && role != ReplicaRole {
		return ErrInvalidRole
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if c.primary || (role == ReplicaRole && !UsingPrimary(ctx)) {
		c.pool.routed(op, role, c.backend, false)
		return fn(ctx, c.handle)
	}

	if c.pool.state.closed() {
		return ErrClosed
	}
	handle, err := c.pool.primaryHandle(ctx)
	if err != nil {
		return err
	}
	c.pool.routed(op, role, PrimaryBackend, true)
	return fn(ctx, handle)
}

// Do forwards op with the role declared in the pool's role table. An
// undeclared op fails with UnrecognizedOperationError before any backend
// is touched.
func (c *Conn[H]) Do(ctx context.Context, op string, fn func(context.Context, H) error) error {
	role, ok := c.pool.roles.Lookup(op)
	if !ok {
		return c.pool.unrecognized(op)
	}
	return c.Delegate(ctx, role, op, fn)
}

// WithPrimary forwards to the owning pool's WithPrimary.
func (c *Conn[H]) WithPrimary(ctx context.Context, fn func(context.Context) error) error {
	return c.pool.WithPrimary(ctx, fn)
}

// ProxiedConnection returns the wrapped handle. Nothing done through it is
// routed.
func (c *Conn[H]) ProxiedConnection() H {
	return c.handle
}

// IsPrimary reports whether the wrapped handle belongs to the primary.
func (c *Conn[H]) IsPrimary() bool {
	return c.primary
}

// Backend returns the name of the provider the handle came from.
func (c *Conn[H]) Backend() string {
	return c.backend
}

// Metadata returns the wrapped handle's metadata, if it carries any.
func (c *Conn[H]) Metadata() Metadata {
	if m, ok := any(c.handle).(MetadataCarrier); ok {
		return m.Metadata()
	}
	return nil
}

// Call runs a declared operation that produces a value on the backend
// resolved by d, which is usually a *Pool or a *Conn.
func Call[H, R any](ctx context.Context, d Doer[H], op string,
	fn func(context.Context, H) (R, error)) (R, error) {
	var res R
	err := d.Do(ctx, op, func(ctx context.Context, h H) error {
		var err error
		res, err = fn(ctx, h)
		return err
	})
	return res, err
}
