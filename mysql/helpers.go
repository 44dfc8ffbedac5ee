package mysql

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ColumnDef is one column of a CreateTable call: a name plus its raw SQL
// definition, e.g. {"id", "INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY"}.
// Column order is preserved.
type ColumnDef struct {
	Name       string
	Definition string
}

// QueryTable selects every row of the given table.
func (c *Connector) QueryTable(ctx context.Context, table string) (*QueryResult, error) {
	return c.Query(ctx, "SELECT * FROM "+quoteIdent(table))
}

// Insert writes the given rows into a table with a single multi-row INSERT.
// The column set is taken from the first row (sorted for a deterministic
// statement); a missing key in a later row becomes SQL NULL. With truncate
// set, the table is emptied first.
func (c *Connector) Insert(ctx context.Context, table string, rows []Row, truncate bool) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	if truncate {
		if err := c.Truncate(ctx, table); err != nil {
			return 0, err
		}
	}

	columns := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	quoted := make([]string, len(columns))
	for i, name := range columns {
		quoted[i] = quoteIdent(name)
	}

	valueRow := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(quoted, ","))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(valueRow)
		for _, name := range columns {
			args = append(args, row[name])
		}
	}

	return c.Exec(ctx, b.String(), args...)
}

// Truncate empties a table.
func (c *Connector) Truncate(ctx context.Context, table string) error {
	_, err := c.Exec(ctx, "TRUNCATE TABLE "+quoteIdent(table))
	return err
}

// DeleteWhere deletes rows matching the given condition. The condition is a
// raw WHERE clause with "?" placeholders bound to args.
func (c *Connector) DeleteWhere(ctx context.Context, table, condition string, args ...any) (int64, error) {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdent(table), condition)
	return c.Exec(ctx, stmt, args...)
}

// DeleteByID deletes rows whose id column matches any of the given values.
func (c *Connector) DeleteByID(ctx context.Context, table, idColumn string, ids ...any) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)",
		quoteIdent(table), quoteIdent(idColumn), placeholders)

	return c.Exec(ctx, stmt, ids...)
}

// UpdateWhere sets one column to a new value on every row matching the
// condition.
func (c *Connector) UpdateWhere(ctx context.Context, table, column string, value any, condition string, args ...any) (int64, error) {
	stmt := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s",
		quoteIdent(table), quoteIdent(column), condition)

	return c.Exec(ctx, stmt, append([]any{value}, args...)...)
}

// UpdateByID sets one column to a new value on the row with the given id.
func (c *Connector) UpdateByID(ctx context.Context, table, column string, value any, idColumn string, id any) (int64, error) {
	return c.UpdateWhere(ctx, table, column, value, quoteIdent(idColumn)+" = ?", id)
}

// CreateDatabase creates a database (schema). With drop set, an existing
// database of the same name is removed first.
func (c *Connector) CreateDatabase(ctx context.Context, name string, drop bool) error {
	if drop {
		if _, err := c.Exec(ctx, "DROP DATABASE IF EXISTS "+quoteIdent(name)); err != nil {
			return err
		}
	}

	_, err := c.Exec(ctx, "CREATE DATABASE "+quoteIdent(name))
	return err
}

// CreateTable creates a table from an ordered column definition list. With
// drop set, an existing table of the same name is removed first.
func (c *Connector) CreateTable(ctx context.Context, name string, columns []ColumnDef, drop bool) error {
	if len(columns) == 0 {
		return &QueryError{Err: fmt.Errorf("create table %q: no columns", name)}
	}

	if drop {
		if _, err := c.Exec(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
			return err
		}
	}

	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = quoteIdent(col.Name) + " " + col.Definition
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(parts, ", "))
	_, err := c.Exec(ctx, stmt)
	return err
}

// ExecFile runs a ";"-separated SQL script from a file, statement by
// statement on this session. Blank fragments are skipped.
func (c *Connector) ExecFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	for _, stmt := range strings.Split(string(raw), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := c.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// quoteIdent backtick-quotes an identifier. Identifiers cannot be bound as
// parameters, so quoting is the only defense on that path.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// toInt64 converts the driver's rendering of an integer (int64 on the binary
// protocol, string/[]byte on the text protocol) to int64.
func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case string:
		return strconv.ParseInt(val, 10, 64)
	case []byte:
		return strconv.ParseInt(string(val), 10, 64)
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}
