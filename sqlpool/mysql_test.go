//go:build mysql

package sqlpool_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/go-replicas/sqlpool"
)

// Run with a reachable server: go test -tags mysql ./sqlpool
func mysqlDSN(t *testing.T) string {
	cfg := mysql.NewConfig()
	cfg.User = "root"
	cfg.Net = "tcp"
	cfg.Addr = "127.0.0.1:3306"
	cfg.DBName = "mysql"
	if addr := os.Getenv("MYSQL_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if pass := os.Getenv("MYSQL_PASSWORD"); pass != "" {
		cfg.Passwd = pass
	}
	return cfg.FormatDSN()
}

func TestMySQL_routing(t *testing.T) {
	dsn := mysqlDSN(t)
	db, err := sqlpool.Open("mysql", sqlpool.MakeCompoundDSN(dsn, dsn))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))

	row, err := db.QueryRowContext(ctx, "SELECT 666")
	require.NoError(t, err)
	var n int
	require.NoError(t, row.Scan(&n))
	require.Equal(t, 666, n)

	_, err = db.ExecContext(ctx, "DO 1")
	require.NoError(t, err)

	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	err = db.WithPrimary(ctx, func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, "SELECT @@read_only")
		if err != nil {
			return err
		}
		return rows.Close()
	})
	require.NoError(t, err)
}
