package sqlpool_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

const fakeDriverName = "sqlpool_fake"

func init() {
	sql.Register(fakeDriverName, fakeDriver{})
}

// journal records the statements each fake backend executed, keyed by DSN.
var journal = struct {
	sync.Mutex
	log map[string][]string
}{log: map[string][]string{}}

func record(dsn, stmt string) {
	journal.Lock()
	defer journal.Unlock()
	journal.log[dsn] = append(journal.log[dsn], stmt)
}

func executed(dsn string) []string {
	journal.Lock()
	defer journal.Unlock()
	ret := make([]string, len(journal.log[dsn]))
	copy(ret, journal.log[dsn])
	return ret
}

// fakeDriver answers every query with a single row holding the DSN of the
// backend that served it.
type fakeDriver struct{}

func (fakeDriver) Open(dsn string) (driver.Conn, error) {
	return &fakeConn{dsn: dsn}, nil
}

type fakeConn struct {
	dsn string
}

var (
	_ driver.QueryerContext = (*fakeConn)(nil)
	_ driver.ExecerContext  = (*fakeConn)(nil)
	_ driver.ConnBeginTx    = (*fakeConn)(nil)
	_ driver.Pinger         = (*fakeConn)(nil)
)

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	record(c.dsn, "prepare "+query)
	return &fakeStmt{conn: c, query: query}, nil
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *fakeConn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if opts.ReadOnly {
		record(c.dsn, "begin read only")
	} else {
		record(c.dsn, "begin")
	}
	return fakeTx{}, nil
}

func (c *fakeConn) Ping(context.Context) error {
	record(c.dsn, "ping")
	return nil
}

func (c *fakeConn) QueryContext(_ context.Context, query string,
	_ []driver.NamedValue) (driver.Rows, error) {
	record(c.dsn, query)
	return &fakeRows{value: c.dsn}, nil
}

func (c *fakeConn) ExecContext(_ context.Context, query string,
	_ []driver.NamedValue) (driver.Result, error) {
	record(c.dsn, query)
	return driver.RowsAffected(1), nil
}

type fakeStmt struct {
	conn  *fakeConn
	query string
}

func (s *fakeStmt) Close() error {
	return nil
}

func (s *fakeStmt) NumInput() int {
	return -1
}

func (s *fakeStmt) Exec([]driver.Value) (driver.Result, error) {
	record(s.conn.dsn, s.query)
	return driver.RowsAffected(1), nil
}

func (s *fakeStmt) Query([]driver.Value) (driver.Rows, error) {
	record(s.conn.dsn, s.query)
	return &fakeRows{value: s.conn.dsn}, nil
}

type fakeTx struct{}

func (fakeTx) Commit() error {
	return nil
}

func (fakeTx) Rollback() error {
	return nil
}

type fakeRows struct {
	value string
	done  bool
}

func (r *fakeRows) Columns() []string {
	return []string{"backend"}
}

func (r *fakeRows) Close() error {
	return nil
}

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = r.value
	return nil
}
