package sql

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/syssam/aggregen/dialect"
)

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Executor is the handle generated code runs its statements on. It is
// usually a *Tx, and carries the dialect the statements are rendered for.
type Executor interface {
	ExecQuerier
	Dialect() string
}

// Conn implements Executor given an ExecQuerier.
type Conn struct {
	ExecQuerier
	dialect string
}

// NewConn wraps an ExecQuerier (a *sql.DB, *sql.Tx or *sql.Conn) with the given dialect.
func NewConn(d string, eq ExecQuerier) Conn {
	return Conn{ExecQuerier: eq, dialect: d}
}

// Dialect returns the dialect name of the connection.
func (c Conn) Dialect() string {
	// If the underlying driver name carries a suffix (e.g. sqlite3).
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(c.dialect, name) {
			return name
		}
	}
	return c.dialect
}

// ExecContext rebinds the query for the dialect and executes it.
func (c Conn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.ExecQuerier.ExecContext(ctx, Rebind(c.Dialect(), query), args...)
}

// QueryContext rebinds the query for the dialect and executes it.
func (c Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.ExecQuerier.QueryContext(ctx, Rebind(c.Dialect(), query), args...)
}

// Rebind converts "?" placeholders to the positional form the dialect
// expects. Question marks inside quoted literals are left untouched.
func Rebind(d, query string) string {
	if d != dialect.Postgres || !strings.Contains(query, "?") {
		return query
	}
	var (
		b     strings.Builder
		n     int
		quote byte
	)
	b.Grow(len(query) + 8)
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Driver wraps a *sql.DB with its dialect.
type Driver struct {
	Conn
	db *sql.DB
}

// Open wraps the database/sql.Open method and returns a Driver.
func Open(d, source string) (*Driver, error) {
	db, err := sql.Open(dialect.DriverName(d), source)
	if err != nil {
		return nil, err
	}
	return OpenDB(d, db), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(d string, db *sql.DB) *Driver {
	return &Driver{Conn: NewConn(d, db), db: db}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.db
}

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Conn: NewConn(d.dialect, tx), tx: tx}, nil
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.db.Close() }

// Tx is a transaction bound to a dialect. It is the Executor generated
// aggregate code expects.
type Tx struct {
	Conn
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback aborts the transaction.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

type (
	// Result is an alias to sql.Result.
	Result = sql.Result
	// TxOptions holds the transaction options to be used in DB.BeginTx.
	TxOptions = sql.TxOptions
)

// Scanner is the interface that wraps the Scan method of *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

var (
	_ Executor = Conn{}
	_ Executor = (*Driver)(nil)
	_ Executor = (*Tx)(nil)
)
