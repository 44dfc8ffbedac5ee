package format

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mmikolaj/gotools/mysql"
)

var _ Formatter = (*Table)(nil)

type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Name() string {
	return "table"
}

func (tf *Table) Format(result *mysql.QueryResult, writer io.Writer) error {
	var tableHeaders []any
	for _, name := range result.Columns {
		tableHeaders = append(tableHeaders, name)
	}

	var tableRows []table.Row
	for _, row := range result.Rows {
		out := make(table.Row, len(result.Columns))
		for i, name := range result.Columns {
			out[i] = row[name]
		}
		tableRows = append(tableRows, out)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row(tableHeaders))
	t.AppendRows(tableRows)
	t.AppendSeparator()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	render := t.Render()

	_, err := writer.Write([]byte(render))
	if err != nil {
		return err
	}
	return nil
}
