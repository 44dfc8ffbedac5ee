// Package mysql is a thin facade over a single MySQL session: connect with
// explicit credentials, run parameterized statements, read rows back, close.
// There is no pooling, retrying or transaction management here - every call
// is a direct pass-through to the driver.
//
// A Connector owns exactly one server connection and supports one in-flight
// statement at a time. Callers that need concurrency open one Connector per
// goroutine.
package mysql

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Connector is a handle to one open session.
type Connector struct {
	id  string
	cfg Config

	db   *sql.DB
	conn *sql.Conn

	logger         *zap.Logger
	typeProcessors map[string]func(any) any

	closed bool
}

// Connect validates the config, dials the server and pins a single
// connection for the lifetime of the returned Connector. Any failure -
// including a malformed config, which is rejected before dialing - comes
// back as a *ConnectionError.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ConnectionError{Err: err}
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	// one session, not a pool
	db.SetMaxOpenConns(1)

	return newConnector(ctx, db, cfg, opts...)
}

func newConnector(ctx context.Context, db *sql.DB, cfg Config, opts ...Option) (*Connector, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, &ConnectionError{Err: err}
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, &ConnectionError{Err: err}
	}

	c := &Connector{
		id:             uuid.New().String(),
		cfg:            cfg,
		db:             db,
		conn:           conn,
		typeProcessors: o.typeProcessors,
	}
	c.logger = o.logger.With(zap.String("session_id", c.id))

	c.logger.Debug("session opened",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return c, nil
}

// ID returns the unique identifier of this session.
func (c *Connector) ID() string {
	return c.id
}

// Config returns the configuration this session was opened with.
func (c *Connector) Config() Config {
	return c.cfg
}

// Query runs a statement that produces rows. Args are bound to positional
// "?" placeholders by the driver, never interpolated.
func (c *Connector) Query(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	if c.closed {
		return nil, &ConnectionError{Err: ErrClosed}
	}

	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	result, err := c.scan(rows)
	if err != nil {
		return nil, classify(err)
	}

	c.logger.Debug("query done", zap.Int("rows", result.Len()))
	return result, nil
}

// Exec runs a mutating statement and returns the number of affected rows.
func (c *Connector) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if c.closed {
		return 0, &ConnectionError{Err: ErrClosed}
	}

	res, err := c.conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, classify(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err)
	}

	c.logger.Debug("exec done", zap.Int64("rows_affected", affected))
	return affected, nil
}

// Execute is the single dispatching entry point: statements with a result
// set come back as rows, anything else as an affected-row count. An empty
// column set means the server sent no result set, in which case ROW_COUNT()
// is read on the same session.
func (c *Connector) Execute(ctx context.Context, stmt string, args ...any) (*QueryResult, error) {
	result, err := c.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	if len(result.Columns) > 0 {
		return result, nil
	}

	counted, err := c.Query(ctx, "SELECT ROW_COUNT()")
	if err != nil {
		return nil, err
	}

	var affected int64
	if counted.Len() > 0 {
		for _, v := range counted.Rows[0] {
			affected, err = toInt64(v)
			if err != nil {
				return nil, &QueryError{Err: err}
			}
		}
	}

	return &QueryResult{RowsAffected: affected}, nil
}

// Close releases the pinned connection and the underlying handle. It is
// idempotent: a second call is a no-op and never an error.
func (c *Connector) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	connErr := c.conn.Close()
	dbErr := c.db.Close()

	c.logger.Debug("session closed")

	if connErr != nil {
		return &ConnectionError{Err: connErr}
	}
	if dbErr != nil {
		return &ConnectionError{Err: dbErr}
	}
	return nil
}

func (c *Connector) processor(typ string) func(any) any {
	if proc, ok := c.typeProcessors[strings.ToLower(typ)]; ok {
		return proc
	}

	return func(val any) any {
		if b, ok := val.([]byte); ok {
			return string(b)
		}
		return val
	}
}

// scan materializes sql.Rows into a QueryResult, mapping each row by column
// name.
func (c *Connector) scan(rows *sql.Rows) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Columns: columns}

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, name := range columns {
			row[name] = c.processor(types[i].DatabaseTypeName())(values[i])
		}

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
