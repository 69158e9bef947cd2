package commands

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/marmos91/sharetab/internal/cli/output"
	"github.com/marmos91/sharetab/pkg/client"
	"github.com/marmos91/sharetab/pkg/records"
	"github.com/marmos91/sharetab/pkg/tabular"
	"github.com/spf13/cobra"
)

type catOptions struct {
	format   string
	sep      string
	encoding string
	sheet    string
	noHeader bool
	limit    int
}

func newCatCmd(o *globalOptions) *cobra.Command {
	opts := &catOptions{}
	cmd := &cobra.Command{
		Use:   "cat PATH",
		Short: "Print a CSV, Excel, or record file",
		Long: `Decode a file from the share and print it. The format is taken from
--format, or else from the file extension: .xlsx and .xlsm are Excel
workbooks, anything else is CSV.

Examples:
  sharetab cat in/q1.csv --sep ';' --encoding latin-1
  sharetab cat reports/stock.xlsx --sheet Estoque -o csv
  sharetab cat legacy/export.txt --format records`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			format, err := detectFormat(args[0], opts.format)
			if err != nil {
				return err
			}
			comma, err := parseSeparator(opts.sep)
			if err != nil {
				return err
			}
			printer, err := o.printer(cmd)
			if err != nil {
				return err
			}

			c, err := o.newClient()
			if err != nil {
				return err
			}
			defer closeClient(c, &err)

			ctx := cmd.Context()
			var t *tabular.Table
			switch format {
			case records.Format:
				f, err := c.ReadRecords(ctx, client.RecordOptions{Encoding: opts.encoding}, args[0])
				if err != nil {
					return err
				}
				return printer.Print(output.NewRecordsView(f))
			case tabular.FormatExcel:
				t, err = c.ReadExcel(ctx, tabular.ExcelOptions{Sheet: opts.sheet, NoHeader: opts.noHeader}, args[0])
			default:
				t, err = c.ReadCSV(ctx, tabular.CSVOptions{Comma: comma, NoHeader: opts.noHeader, Encoding: opts.encoding}, args[0])
			}
			if err != nil {
				return err
			}
			return printer.Print(output.NewTableView(t, opts.limit))
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "file format (csv|excel|records), detected from the extension when empty")
	cmd.Flags().StringVar(&opts.sep, "sep", ",", `CSV field separator, a single character or "tab"`)
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "text encoding of the file (default: connection encoding)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "worksheet to read (default: first sheet)")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "treat the first row as data")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "print at most this many rows (0: all)")
	return cmd
}

// detectFormat resolves the codec for name. An explicit format wins over the
// extension.
func detectFormat(name, explicit string) (string, error) {
	switch strings.ToLower(explicit) {
	case "csv":
		return tabular.FormatCSV, nil
	case "excel", "xlsx":
		return tabular.FormatExcel, nil
	case "records":
		return records.Format, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q (valid: csv, excel, records)", explicit)
	}

	switch strings.ToLower(path.Ext(strings.ReplaceAll(name, `\`, "/"))) {
	case ".xlsx", ".xlsm":
		return tabular.FormatExcel, nil
	default:
		return tabular.FormatCSV, nil
	}
}

// parseSeparator turns a --sep value into a CSV delimiter.
func parseSeparator(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid separator %q: want a single character", s)
	}
	return r, nil
}
