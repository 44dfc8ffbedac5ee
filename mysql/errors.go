package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// ErrClosed is the cause carried by a *ConnectionError when a session is
// used after Close.
var ErrClosed = errors.New("session is closed")

// ConnectionError reports a failure of the session itself: unreachable host,
// bad credentials, a timeout, or use after Close.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mysql: connection: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failure the server raised for a statement: a syntax
// error, an unknown table, a constraint violation. Number holds the MySQL
// server error code when one is available.
type QueryError struct {
	Number uint16
	Err    error
}

func (e *QueryError) Error() string {
	if e.Number != 0 {
		return fmt.Sprintf("mysql: query (%d): %v", e.Number, e.Err)
	}
	return fmt.Sprintf("mysql: query: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsConnectionError reports whether any error in err's chain is a *ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsQueryError reports whether any error in err's chain is a *QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// classify maps driver and pool errors onto the two error kinds. A
// *mysql.MySQLError means the server answered, so the session survived and
// the statement is at fault; transport-level errors point at the connection.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var serverErr *mysqldriver.MySQLError
	if errors.As(err, &serverErr) {
		return &QueryError{Number: serverErr.Number, Err: err}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, mysqldriver.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		return &ConnectionError{Err: err}
	}

	return &QueryError{Err: err}
}
