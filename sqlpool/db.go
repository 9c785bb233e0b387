/*
Package sqlpool routes "database/sql" calls between a primary and a set of
replica databases.

	db, _ := sqlpool.Open("mysql", "my-primary;my-replica-1;my-replica-2")

# Routing

Each method is an operation of the role table (DefaultRoles unless
WithRoles is given):

	ExecContext                 exec             primary
	PrepareContext              prepare          primary
	BeginTx                     begin            primary
	BeginTx{ReadOnly: true}     begin_read_only  replica
	QueryContext                query            replica
	QueryRowContext             query_row        replica
	PingContext                 ping             replica

Replica operations go to the primary inside WithPrimary.

# Connection Pooling

Every backend is a *sql.DB with its own connection pool. sqlpool only
chooses which *sql.DB serves a call.
*/
package sqlpool

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ice-blockchain/go-replicas"
)

// Operation names used by DB.
const (
	OpExec          = "exec"
	OpPrepare       = "prepare"
	OpBegin         = "begin"
	OpBeginReadOnly = "begin_read_only"
	OpQuery         = "query"
	OpQueryRow      = "query_row"
	OpPing          = "ping"
)

// DefaultRoles returns the role table used by Open.
func DefaultRoles() *replicas.RoleTable {
	return replicas.MustRoleTable(
		[]string{OpExec, OpPrepare, OpBegin},
		[]string{OpBeginReadOnly, OpQuery, OpQueryRow, OpPing},
	)
}

// DB is a primary/replica set of *sql.DB.
type DB struct {
	pool *replicas.Pool[*sql.DB]
}

// New wraps an existing pool of *sql.DB handles.
func New(pool *replicas.Pool[*sql.DB]) *DB {
	return &DB{pool: pool}
}

// Open opens a *sql.DB for every component of a compound DSN. Replicas are
// named replica0, replica1, ... in DSN order.
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	o := options{roles: DefaultRoles()}
	for _, opt := range opts {
		opt(&o)
	}

	primaryDSN, replicaDSNs := ParseCompoundDSN(dsn)
	if primaryDSN == "" {
		return nil, IncompleteDSNError{DSN: dsn}
	}

	opened := make([]*sql.DB, 0, len(replicaDSNs)+1)
	open := func(dsn string) (*sql.DB, error) {
		db, err := sql.Open(driverName, dsn)
		if err != nil {
			for _, db := range opened {
				db.Close()
			}
			return nil, err
		}
		if o.configure != nil {
			o.configure(db)
		}
		opened = append(opened, db)
		return db, nil
	}

	primary, err := open(primaryDSN)
	if err != nil {
		return nil, err
	}
	providers := make(map[string]replicas.Provider[*sql.DB], len(replicaDSNs))
	for i, replicaDSN := range replicaDSNs {
		db, err := open(replicaDSN)
		if err != nil {
			return nil, err
		}
		providers[fmt.Sprintf("replica%d", i)] = replicas.Static(db)
	}

	pool := replicas.NewPool[*sql.DB](replicas.Static(primary), providers, o.roles, o.poolOpts)
	return New(pool), nil
}

// Pool returns the underlying pool.
func (db *DB) Pool() *replicas.Pool[*sql.DB] {
	return db.pool
}

// ExecContext executes a query without returning any rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return replicas.Call(ctx, db.pool, OpExec, func(ctx context.Context, h *sql.DB) (sql.Result, error) {
		return h.ExecContext(ctx, query, args...)
	})
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return replicas.Call(ctx, db.pool, OpQuery, func(ctx context.Context, h *sql.DB) (*sql.Rows, error) {
		return h.QueryContext(ctx, query, args...)
	})
}

// QueryRowContext executes a query that is expected to return at most one
// row. Unlike sql.DB it reports routing failures separately from the row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) (*sql.Row, error) {
	return replicas.Call(ctx, db.pool, OpQueryRow, func(ctx context.Context, h *sql.DB) (*sql.Row, error) {
		return h.QueryRowContext(ctx, query, args...), nil
	})
}

// PrepareContext creates a prepared statement bound to the primary.
func (db *DB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return replicas.Call(ctx, db.pool, OpPrepare, func(ctx context.Context, h *sql.DB) (*sql.Stmt, error) {
		return h.PrepareContext(ctx, query)
	})
}

// BeginTx starts a transaction. Read-only transactions may run on a
// replica.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	op := OpBegin
	if opts != nil && opts.ReadOnly {
		op = OpBeginReadOnly
	}
	return replicas.Call(ctx, db.pool, op, func(ctx context.Context, h *sql.DB) (*sql.Tx, error) {
		return h.BeginTx(ctx, opts)
	})
}

// PingContext verifies the connection to the current backend.
func (db *DB) PingContext(ctx context.Context) error {
	return db.pool.Do(ctx, OpPing, func(ctx context.Context, h *sql.DB) error {
		return h.PingContext(ctx)
	})
}

// WithPrimary runs fn with every call made through ctx routed to the
// primary.
func (db *DB) WithPrimary(ctx context.Context, fn func(context.Context) error) error {
	return db.pool.WithPrimary(ctx, fn)
}

// Close closes every *sql.DB.
func (db *DB) Close() error {
	return db.pool.Close()
}
