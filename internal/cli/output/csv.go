package output

import (
	"io"

	"github.com/marmos91/sharetab/pkg/tabular"
)

// PrintCSV writes data as UTF-8 CSV with a header line.
func PrintCSV(w io.Writer, data TableRenderer) error {
	return tabular.EncodeCSV(w, &tabular.Table{Columns: data.Headers(), Rows: data.Rows()}, tabular.CSVOptions{})
}
