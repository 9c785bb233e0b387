package sqlpool

import (
	"database/sql"

	"github.com/ice-blockchain/go-replicas"
)

// Option is a configuration option for Open.
type Option func(*options)

type options struct {
	roles     *replicas.RoleTable
	poolOpts  replicas.Opts
	configure func(*sql.DB)
}

// WithRoles replaces DefaultRoles.
func WithRoles(roles *replicas.RoleTable) Option {
	return func(o *options) {
		o.roles = roles
	}
}

// WithLogger sets the logger of the underlying pool.
func WithLogger(l replicas.Logger) Option {
	return func(o *options) {
		o.poolOpts.Logger = l
	}
}

// WithObserver sets the routing observer of the underlying pool.
func WithObserver(obs replicas.Observer) Option {
	return func(o *options) {
		o.poolOpts.Observer = obs
	}
}

// WithDBConfig is called with every *sql.DB opened by Open, for example
// to set connection limits.
func WithDBConfig(f func(*sql.DB)) Option {
	return func(o *options) {
		o.configure = f
	}
}
