package replicas_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ice-blockchain/go-replicas"
)

// backend is a fake handle recording the operations executed on it.
type backend struct {
	name     string
	mutex    sync.Mutex
	ops      []string
	meta     replicas.Metadata
	closeErr error
	closed   int
}

func newBackend(name string) *backend {
	return &backend{name: name}
}

func (b *backend) exec(op string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.ops = append(b.ops, op)
}

func (b *backend) executed() []string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	ret := make([]string, len(b.ops))
	copy(ret, b.ops)
	return ret
}

func (b *backend) Metadata() replicas.Metadata {
	return b.meta
}

func (b *backend) Close() error {
	b.closed++
	return b.closeErr
}

// run returns a callback executing op on whatever handle it is given.
func run(op string) func(context.Context, *backend) error {
	return func(_ context.Context, b *backend) error {
		b.exec(op)
		return nil
	}
}

var errProvider = errors.New("provider is down")

func failingProvider() replicas.Provider[*backend] {
	return replicas.ProviderFunc[*backend](func(context.Context) (*backend, error) {
		return nil, errProvider
	})
}

type cluster struct {
	primary  *backend
	replicas map[string]*backend
	pool     *replicas.Pool[*backend]
}

func newCluster(roles *replicas.RoleTable, opts replicas.Opts, names ...string) *cluster {
	c := &cluster{
		primary:  newBackend(replicas.PrimaryBackend),
		replicas: make(map[string]*backend, len(names)),
	}
	providers := make(map[string]replicas.Provider[*backend], len(names))
	for _, name := range names {
		b := newBackend(name)
		c.replicas[name] = b
		providers[name] = replicas.Static(b)
	}
	c.pool = replicas.NewPool[*backend](replicas.Static(c.primary), providers, roles, opts)
	return c
}

var testRoles = replicas.MustRoleTable(
	[]string{"write", "delete"},
	[]string{"read", "count"},
)

type routeRecord struct {
	op         string
	role       replicas.Role
	backend    string
	redirected bool
}

type observerMock struct {
	mutex          sync.Mutex
	routes         []routeRecord
	providerErrors []string
}

func (o *observerMock) ObserveRoute(op string, role replicas.Role, backend string, redirected bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.routes = append(o.routes, routeRecord{op: op, role: role, backend: backend, redirected: redirected})
}

func (o *observerMock) ObserveProviderError(backend string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.providerErrors = append(o.providerErrors, backend)
}

type loggerMock struct {
	mutex  sync.Mutex
	events []replicas.LogEvent
}

func (l *loggerMock) Report(event replicas.LogEvent) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.events = append(l.events, event)
}

func (l *loggerMock) names() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	ret := make([]string, 0, len(l.events))
	for _, e := range l.events {
		ret = append(ret, e.EventName())
	}
	return ret
}
