// Package replicas routes database operations between a single writable
// primary backend and a set of read-only replica backends.
//
// Main features:
//
// - Return a proxying connection to the next replica according to a
// round-robin strategy.
//
// - Redirect operations declared as primary-only to the primary backend.
//
// - Force primary routing for a scoped region with WithPrimary. The scope
// travels with the context, so concurrent callers never see each other's
// overrides.
package replicas

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// PrimaryBackend is the backend name reported for the primary.
const PrimaryBackend = "primary"

// Opts provides additional options of a Pool.
type Opts struct {
	// Logger receives routing and override events. Nothing is reported if
	// it is nil.
	Logger Logger
	// Observer is notified about every routing decision, for example to
	// export metrics.
	Observer Observer
}

// Doer forwards a declared operation to a backend handle.
type Doer[H any] interface {
	Do(ctx context.Context, op string, fn func(context.Context, H) error) error
}

/*
Pool owns a primary provider and a named set of replica providers.

- Connection returns a Conn wrapping the current backend: the primary
inside a WithPrimary scope, the next replica otherwise.

- Replica names are visited in sorted order, wrapping around.
*/
type Pool[H any] struct {
	primary  Provider[H]
	replicas *roundRobinStrategy[H]
	roles    *RoleTable
	opts     Opts
	state    state
}

var _ Doer[io.Closer] = (*Pool[io.Closer])(nil)

// NewPool creates a pool. A nil primary provider makes every primary
// lookup fail with ErrBackendUnavailable. Without replicas every
// connection is a primary connection.
func NewPool[H any](primary Provider[H], replicas map[string]Provider[H],
	roles *RoleTable, opts Opts) *Pool[H] {
	if primary == nil {
		primary = ProviderFunc[H](unavailable[H])
	}
	if roles == nil {
		roles = &RoleTable{roles: map[string]Role{}}
	}

	named := make(map[string]Provider[H], len(replicas))
	for name, p := range replicas {
		if p != nil {
			named[name] = p
		}
	}

	return &Pool[H]{
		primary:  primary,
		replicas: newRoundRobinStrategy(named),
		roles:    roles,
		opts:     opts,
	}
}

// Roles returns the role table the pool was created with.
func (p *Pool[H]) Roles() *RoleTable {
	return p.roles
}

// CurrentProvider returns the provider the next Connection call would use.
// Outside a WithPrimary scope each call advances the replica rotation.
func (p *Pool[H]) CurrentProvider(ctx context.Context) (string, Provider[H], bool) {
	if UsingPrimary(ctx) {
		return PrimaryBackend, p.primary, true
	}
	name, provider, ok := p.replicas.next()
	if !ok {
		return PrimaryBackend, p.primary, true
	}
	return name, provider, false
}

// Connection returns a proxying connection wrapping a handle of the
// current provider.
func (p *Pool[H]) Connection(ctx context.Context) (*Conn[H], error) {
	if p.state.closed() {
		return nil, ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	name, provider, primary := p.CurrentProvider(ctx)
	return p.connect(ctx, name, provider, primary)
}

// PrimaryConnection returns a proxying connection wrapping a primary handle.
func (p *Pool[H]) PrimaryConnection(ctx context.Context) (*Conn[H], error) {
	if p.state.closed() {
		return nil, ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return p.connect(ctx, PrimaryBackend, p.primary, true)
}

func (p *Pool[H]) connect(ctx context.Context, name string, provider Provider[H],
	primary bool) (*Conn[H], error) {
	handle, err := p.handle(ctx, name, provider)
	if err != nil {
		return nil, err
	}
	return &Conn[H]{handle: handle, backend: name, primary: primary, pool: p}, nil
}

func (p *Pool[H]) primaryHandle(ctx context.Context) (H, error) {
	return p.handle(ctx, PrimaryBackend, p.primary)
}

func (p *Pool[H]) handle(ctx context.Context, name string, provider Provider[H]) (H, error) {
	handle, err := provider.Handle(ctx)
	if err != nil {
		if p.opts.Observer != nil {
			p.opts.Observer.ObserveProviderError(name)
		}
		p.report(ProviderFailedEvent{baseEvent: newBaseEvent(), Backend: name, Error: err})
	}
	return handle, err
}

// Do looks op up in the role table and runs fn on the backend it resolves
// to. Primary-only operations go straight to the primary, others take a
// connection from the current provider.
func (p *Pool[H]) Do(ctx context.Context, op string,
	fn func(context.Context, H) error) error {
	role, ok := p.roles.Lookup(op)
	if !ok {
		return p.unrecognized(op)
	}

	var conn *Conn[H]
	var err error
	if role == PrimaryRole {
		conn, err = p.PrimaryConnection(ctx)
	} else {
		conn, err = p.Connection(ctx)
	}
	if err != nil {
		return err
	}
	return conn.Delegate(ctx, role, op, fn)
}

// WithPrimary runs fn with a context in which every routing decision
// resolves to the primary. The override ends when fn returns, fails or
// panics; an enclosing scope stays active. fn's error is returned as is.
func (p *Pool[H]) WithPrimary(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if p.opts.Logger != nil {
		scope := uuid.New()
		p.report(OverrideEnteredEvent{baseEvent: newBaseEvent(), ScopeID: scope, Nested: UsingPrimary(ctx)})
		defer func() {
			p.report(OverrideExitedEvent{baseEvent: newBaseEvent(), ScopeID: scope, Error: err})
		}()
	}

	return fn(withOverride(ctx))
}

// AddReplica registers a replica provider under name.
func (p *Pool[H]) AddReplica(name string, provider Provider[H]) error {
	if name == "" {
		return ErrEmptyName
	}
	if p.state.closed() {
		return ErrClosed
	}
	if provider == nil || !p.replicas.add(name, provider) {
		return ErrExists
	}
	return nil
}

// RemoveReplica unregisters a replica provider and returns it. The
// provider is not closed.
func (p *Pool[H]) RemoveReplica(name string) (Provider[H], bool) {
	provider := p.replicas.delete(name)
	return provider, provider != nil
}

// Replica returns the replica provider registered under name.
func (p *Pool[H]) Replica(name string) (Provider[H], bool) {
	provider := p.replicas.get(name)
	return provider, provider != nil
}

// Replicas returns the replica names in rotation order.
func (p *Pool[H]) Replicas() []string {
	return p.replicas.list()
}

// Close closes every provider implementing io.Closer. Subsequent
// Connection calls fail with ErrClosed.
func (p *Pool[H]) Close() error {
	if !p.state.close() {
		return ErrClosed
	}

	var result *multierror.Error
	providers := append([]Provider[H]{p.primary}, p.replicas.all()...)
	for _, provider := range providers {
		if c, ok := provider.(io.Closer); ok {
			if err := c.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}

func (p *Pool[H]) routed(op string, role Role, backend string, redirected bool) {
	if p.opts.Observer != nil {
		p.opts.Observer.ObserveRoute(op, role, backend, redirected)
	}
	p.report(RouteEvent{
		baseEvent:  newBaseEvent(),
		Operation:  op,
		Role:       role,
		Backend:    backend,
		Redirected: redirected,
	})
}

func (p *Pool[H]) unrecognized(op string) error {
	p.report(UnrecognizedOperationEvent{baseEvent: newBaseEvent(), Operation: op})
	return UnrecognizedOperationError{Operation: op}
}

func (p *Pool[H]) report(event LogEvent) {
	if p.opts.Logger != nil {
		p.opts.Logger.Report(event)
	}
}
