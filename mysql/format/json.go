package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmikolaj/gotools/mysql"
)

var _ Formatter = (*JSON)(nil)

type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (jf *JSON) Name() string {
	return "json"
}

func (jf *JSON) Format(result *mysql.QueryResult, writer io.Writer) error {
	// rows are already name->value maps
	data := make([]mysql.Row, 0, len(result.Rows))
	data = append(data, result.Rows...)

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	if _, err := writer.Write(out); err != nil {
		return err
	}
	return nil
}
