// Package tntpool routes Tarantool requests between a primary instance and
// a set of replicas.
//
// Doer implements tarantool.Doer, so it can be used wherever a
// *tarantool.Connection performs requests:
//
//	doer := tntpool.Wrap(primaryConn, map[string]tarantool.Doer{"r1": replicaConn}, nil, replicas.Opts{})
//	data, err := doer.Do(tarantool.NewSelectRequest("users")).Get()
//
// The routing context is the request context. To force the primary, build
// requests inside WithPrimary with the context it provides:
//
//	err := doer.WithPrimary(ctx, func(ctx context.Context) error {
//		_, err := doer.Do(tarantool.NewSelectRequest("users").Context(ctx)).Get()
//		return err
//	})
package tntpool

import (
	"context"
	"fmt"

	"github.com/tarantool/go-tarantool/v2"

	"github.com/ice-blockchain/go-replicas"
)

// Operation names of the request types known to RequestOperation.
const (
	OpSelect          = "select"
	OpInsert          = "insert"
	OpReplace         = "replace"
	OpUpdate          = "update"
	OpUpsert          = "upsert"
	OpDelete          = "delete"
	OpCall            = "call"
	OpEval            = "eval"
	OpExecute         = "execute"
	OpPrepare         = "prepare"
	OpUnprepare       = "unprepare"
	OpExecutePrepared = "execute_prepared"
	OpPing            = "ping"
	OpBegin           = "begin"
	OpCommit          = "commit"
	OpRollback        = "rollback"
)

// DefaultRoles declares data modification and transaction control requests
// primary-only and select requests replica-preferred. Calls, evals, SQL
// and pings may do anything, so they must be declared by the caller.
func DefaultRoles() *replicas.RoleTable {
	return replicas.MustRoleTable(
		[]string{OpInsert, OpReplace, OpUpdate, OpUpsert, OpDelete,
			OpBegin, OpCommit, OpRollback},
		[]string{OpSelect},
	)
}

// RequestOperation returns the operation name of req. Request types
// without a name are named by their Go type, e.g. "*mypkg.CustomRequest".
func RequestOperation(req tarantool.Request) string {
	switch req.(type) {
	case *tarantool.SelectRequest:
		return OpSelect
	case *tarantool.InsertRequest:
		return OpInsert
	case *tarantool.ReplaceRequest:
		return OpReplace
	case *tarantool.UpdateRequest:
		return OpUpdate
	case *tarantool.UpsertRequest:
		return OpUpsert
	case *tarantool.DeleteRequest:
		return OpDelete
	case *tarantool.CallRequest:
		return OpCall
	case *tarantool.EvalRequest:
		return OpEval
	case *tarantool.ExecuteRequest:
		return OpExecute
	case *tarantool.PrepareRequest:
		return OpPrepare
	case *tarantool.UnprepareRequest:
		return OpUnprepare
	case *tarantool.ExecutePreparedRequest:
		return OpExecutePrepared
	case *tarantool.PingRequest:
		return OpPing
	case *tarantool.BeginRequest:
		return OpBegin
	case *tarantool.CommitRequest:
		return OpCommit
	case *tarantool.RollbackRequest:
		return OpRollback
	default:
		return fmt.Sprintf("%T", req)
	}
}

// Doer routes requests over a pool of tarantool.Doer.
type Doer struct {
	pool *replicas.Pool[tarantool.Doer]
}

var _ tarantool.Doer = (*Doer)(nil)

// New wraps an existing pool.
func New(pool *replicas.Pool[tarantool.Doer]) *Doer {
	return &Doer{pool: pool}
}

// Wrap creates a Doer over established connections. A nil roles table
// means DefaultRoles.
func Wrap(primary tarantool.Doer, replicaDoers map[string]tarantool.Doer,
	roles *replicas.RoleTable, opts replicas.Opts) *Doer {
	if roles == nil {
		roles = DefaultRoles()
	}

	var primaryProvider replicas.Provider[tarantool.Doer]
	if primary != nil {
		primaryProvider = replicas.Static(primary)
	}
	providers := make(map[string]replicas.Provider[tarantool.Doer], len(replicaDoers))
	for name, d := range replicaDoers {
		if d != nil {
			providers[name] = replicas.Static(d)
		}
	}

	return New(replicas.NewPool[tarantool.Doer](primaryProvider, providers, roles, opts))
}

// Pool returns the underlying pool.
func (d *Doer) Pool() *replicas.Pool[tarantool.Doer] {
	return d.pool
}

// Do routes req using its own context. Routing failures are returned as
// a failed future.
func (d *Doer) Do(req tarantool.Request) *tarantool.Future {
	return d.DoContext(req.Ctx(), req)
}

// DoContext routes req using ctx instead of the request context.
func (d *Doer) DoContext(ctx context.Context, req tarantool.Request) *tarantool.Future {
	if ctx == nil {
		ctx = context.Background()
	}

	fut, err := replicas.Call(ctx, d.pool, RequestOperation(req),
		func(_ context.Context, h tarantool.Doer) (*tarantool.Future, error) {
			return h.Do(req), nil
		})
	if err != nil {
		return errorFuture(req, err)
	}
	return fut
}

// WithPrimary runs fn with a context that routes every request built with
// it to the primary.
func (d *Doer) WithPrimary(ctx context.Context, fn func(context.Context) error) error {
	return d.pool.WithPrimary(ctx, fn)
}

// Close closes every connection implementing io.Closer.
func (d *Doer) Close() error {
	return d.pool.Close()
}

func errorFuture(req tarantool.Request, err error) *tarantool.Future {
	fut := tarantool.NewFuture(req)
	fut.SetError(err)
	return fut
}
