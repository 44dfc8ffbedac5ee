package mysql

// Row maps column names to scanned values. Values come out the way the
// driver hands them over, except []byte which is normalized to string (or
// whatever a registered type processor turns it into).
type Row map[string]any

// QueryResult is the materialized outcome of a single statement. Columns
// keeps the server's column order; Rows keeps the server's row order. For
// statements without a result set only RowsAffected is filled in. A result
// is never modified after it is returned.
type QueryResult struct {
	Columns      []string
	Rows         []Row
	RowsAffected int64
}

// Len returns the number of rows.
func (r *QueryResult) Len() int {
	return len(r.Rows)
}
