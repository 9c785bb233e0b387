package replicas

import (
	"context"
	"io"
)

// Provider yields handles to one backend. Pooling of the handles, if any,
// is the provider's business.
type Provider[H any] interface {
	// Handle returns a handle to the backend. Errors are returned to the
	// caller of the pool unchanged.
	Handle(ctx context.Context) (H, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc[H any] func(ctx context.Context) (H, error)

// Handle calls f(ctx).
func (f ProviderFunc[H]) Handle(ctx context.Context) (H, error) {
	return f(ctx)
}

// StaticProvider always yields the same handle.
type StaticProvider[H any] struct {
	handle H
}

var _ io.Closer = (*StaticProvider[io.Closer])(nil)

// Static returns a provider for an already established handle, such as a
// *sql.DB or a tarantool connection, which pools its own connections.
func Static[H any](handle H) *StaticProvider[H] {
	return &StaticProvider[H]{handle: handle}
}

// Handle returns the wrapped handle.
func (p *StaticProvider[H]) Handle(context.Context) (H, error) {
	return p.handle, nil
}

// Close closes the wrapped handle if it implements io.Closer.
func (p *StaticProvider[H]) Close() error {
	if c, ok := any(p.handle).(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func unavailable[H any](context.Context) (H, error) {
	var zero H
	return zero, ErrBackendUnavailable
}

// Metadata is opaque per-backend information, for example the settings a
// cleanup tool needs to reach the database directly. The pool never
// interprets it.
type Metadata map[string]string

// MetadataCarrier is implemented by handles that expose Metadata.
type MetadataCarrier interface {
	Metadata() Metadata
}
