package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConnector builds a connector over a sqlmock database. The initial
// ping issued by newConnector is expected here.
func newTestConnector(t *testing.T, opts ...Option) (*Connector, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()

	cfg := Config{Host: "localhost", Port: 3306, User: "t", Password: "t", Database: "testdb"}
	conn, err := newConnector(context.Background(), db, cfg, opts...)
	require.NoError(t, err)

	return conn, mock
}

func TestConnectRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty config", cfg: Config{}},
		{name: "missing host", cfg: Config{User: "t", Database: "testdb"}},
		{name: "missing user", cfg: Config{Host: "localhost", Database: "testdb"}},
		{name: "missing database", cfg: Config{Host: "localhost", User: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Connect(context.Background(), tt.cfg)
			require.Nil(t, conn)
			require.Error(t, err)
			assert.True(t, IsConnectionError(err))
		})
	}
}

func TestQueryMapsRowsByColumn(t *testing.T) {
	conn, mock := newTestConnector(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM people")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("john_doe")).
			AddRow(int64(2), []byte("jane_smith")))

	got, err := conn.Query(context.Background(), "SELECT id, name FROM people")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, got.Columns)
	require.Equal(t, 2, got.Len())
	// []byte values are normalized to string
	assert.Equal(t, Row{"id": int64(1), "name": "john_doe"}, got.Rows[0])
	assert.Equal(t, Row{"id": int64(2), "name": "jane_smith"}, got.Rows[1])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerySelectOne(t *testing.T) {
	conn, mock := newTestConnector(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))

	got, err := conn.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)

	require.Equal(t, 1, got.Len())
	assert.Equal(t, Row{"1": int64(1)}, got.Rows[0])
}

func TestQueryBindsArgs(t *testing.T) {
	conn, mock := newTestConnector(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM people WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("jane_smith"))

	got, err := conn.Query(context.Background(), "SELECT name FROM people WHERE id = ?", int64(2))
	require.NoError(t, err)
	assert.Equal(t, Row{"name": "jane_smith"}, got.Rows[0])
}

func TestExecReturnsAffectedRows(t *testing.T) {
	conn, mock := newTestConnector(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE people SET name = ? WHERE id = ?")).
		WithArgs("john", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := conn.Exec(context.Background(), "UPDATE people SET name = ? WHERE id = ?", "john", int64(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestExecuteDispatchesResultSet(t *testing.T) {
	conn, mock := newTestConnector(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM people")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	got, err := conn.Execute(context.Background(), "SELECT id FROM people")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, got.Columns)
	assert.Equal(t, 1, got.Len())
}

func TestExecuteDispatchesRowCount(t *testing.T) {
	conn, mock := newTestConnector(t)

	// no result set -> fall back to ROW_COUNT() on the same session
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM people WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT ROW_COUNT()")).
		WillReturnRows(sqlmock.NewRows([]string{"ROW_COUNT()"}).AddRow(int64(3)))

	got, err := conn.Execute(context.Background(), "DELETE FROM people WHERE id = ?", int64(1))
	require.NoError(t, err)
	assert.Empty(t, got.Columns)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, int64(3), got.RowsAffected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryErrorLeavesSessionUsable(t *testing.T) {
	conn, mock := newTestConnector(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM no_such_table")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1146, Message: "Table 'testdb.no_such_table' doesn't exist"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))

	_, err := conn.Query(context.Background(), "SELECT * FROM no_such_table")
	require.Error(t, err)
	assert.True(t, IsQueryError(err))
	assert.False(t, IsConnectionError(err))

	got, err := conn.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestCloseIsIdempotent(t *testing.T) {
	conn, mock := newTestConnector(t)

	mock.ExpectClose()

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClosedSessionFailsWithConnectionError(t *testing.T) {
	conn, mock := newTestConnector(t)
	mock.ExpectClose()
	require.NoError(t, conn.Close())

	_, err := conn.Query(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = conn.Exec(context.Background(), "DELETE FROM people")
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
}

func TestWithTypeProcessor(t *testing.T) {
	conn, mock := newTestConnector(t, WithTypeProcessor("decimal", func(val any) any {
		if b, ok := val.([]byte); ok {
			return "dec:" + string(b)
		}
		return val
	}))

	columns := []*sqlmock.Column{
		sqlmock.NewColumn("price").OfType("DECIMAL", []byte("9.99")),
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM items")).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(columns...).AddRow([]byte("9.99")))

	got, err := conn.Query(context.Background(), "SELECT price FROM items")
	require.NoError(t, err)
	assert.Equal(t, Row{"price": "dec:9.99"}, got.Rows[0])
}

func TestConnectorHasSessionID(t *testing.T) {
	conn, _ := newTestConnector(t)
	assert.NotEmpty(t, conn.ID())
}
