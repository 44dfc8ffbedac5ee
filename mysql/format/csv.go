package format

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mmikolaj/gotools/mysql"
)

var _ Formatter = (*CSV)(nil)

type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (cf *CSV) Name() string {
	return "csv"
}

func (cf *CSV) Format(result *mysql.QueryResult, writer io.Writer) error {
	data := [][]string{
		result.Columns,
	}
	for _, row := range result.Rows {
		csvRow := make([]string, len(result.Columns))
		for i, name := range result.Columns {
			if row[name] == nil {
				continue
			}
			csvRow[i] = fmt.Sprint(row[name])
		}
		data = append(data, csvRow)
	}

	w := csv.NewWriter(writer)

	err := w.WriteAll(data)
	if err != nil {
		return fmt.Errorf("w.WriteAll: %w", err)
	}

	return nil
}
