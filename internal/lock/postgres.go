package lock

import (
	"context"
	"database/sql/driver"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresLocker takes session level advisory locks. Each lease pins one
// pooled connection until released; if the process dies the connection
// closes and Postgres drops the lock with it. ttl is not enforced.
type PostgresLocker struct {
	db *sqlx.DB
}

func NewPostgresLocker(db *sqlx.DB) *PostgresLocker {
	return &PostgresLocker{db: db}
}

type postgresLease struct {
	conn *sqlx.Conn
	key  string
}

func (l *PostgresLocker) TryAcquire(ctx context.Context, key string, _ time.Duration) (Lease, error) {
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, err
	}

	var acquired bool
	if err := conn.GetContext(ctx, &acquired, `SELECT pg_try_advisory_lock(hashtext($1))`, key); err != nil {
		discard(conn)
		return nil, err
	}
	if !acquired {
		conn.Close()
		return nil, nil
	}
	return &postgresLease{conn: conn, key: key}, nil
}

func (le *postgresLease) Release(ctx context.Context) error {
	if _, err := le.conn.ExecContext(ctx, `SELECT pg_advisory_unlock(hashtext($1))`, le.key); err != nil {
		discard(le.conn)
		return err
	}
	return le.conn.Close()
}

// discard closes the underlying session instead of returning it to the pool,
// so a lock it may still hold goes away with it.
func discard(conn *sqlx.Conn) {
	_ = conn.Raw(func(interface{}) error { return driver.ErrBadConn })
	conn.Close()
}
