// Package format renders query results for humans and for further
// processing: an aligned text table, CSV and JSON.
package format

import (
	"io"

	"github.com/mmikolaj/gotools/mysql"
)

// Formatter writes a query result to a writer.
type Formatter interface {
	Name() string
	Format(result *mysql.QueryResult, writer io.Writer) error
}
