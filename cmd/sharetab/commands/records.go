package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marmos91/sharetab/internal/cli/output"
	"github.com/marmos91/sharetab/pkg/client"
	"github.com/marmos91/sharetab/pkg/records"
	"github.com/marmos91/sharetab/pkg/tabular"
	"github.com/spf13/cobra"
)

func newRecordsCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Read and write legacy fixed-width record files",
		Long: `Work with the legacy fixed-width record format: a header line holding a
3 character version and a file id, item lines of id (5), description (15),
and value (10, two decimals), and a closing FIM line.`,
	}
	cmd.AddCommand(newRecordsShowCmd(o), newRecordsFromCSVCmd(o))
	return cmd
}

func newRecordsShowCmd(o *globalOptions) *cobra.Command {
	var encoding string
	cmd := &cobra.Command{
		Use:   "show PATH",
		Short: "Print a record file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			printer, err := o.printer(cmd)
			if err != nil {
				return err
			}

			c, err := o.newClient()
			if err != nil {
				return err
			}
			defer closeClient(c, &err)

			f, err := c.ReadRecords(cmd.Context(), client.RecordOptions{Encoding: encoding}, args[0])
			if err != nil {
				return err
			}
			if printer.Format() == output.FormatTable {
				printer.Printf("Version %s, file %s, %d items\n\n", f.Header.Version, f.Header.FileID, len(f.Items))
			}
			return printer.Print(output.NewRecordsView(f))
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "", "text encoding of the file (default: connection encoding)")
	return cmd
}

type fromCSVOptions struct {
	version     string
	fileID      string
	sep         string
	encoding    string
	outEncoding string
}

func newRecordsFromCSVCmd(o *globalOptions) *cobra.Command {
	opts := &fromCSVOptions{}
	cmd := &cobra.Command{
		Use:   "from-csv SRC DST",
		Short: "Convert a CSV file into a record file",
		Long: `Read SRC, a CSV file with the columns id, description, and value, and
write it to DST as a record file. The file is validated before DST is
touched, so an invalid row never truncates an existing file.

Example:
  sharetab records from-csv in/items.csv legacy/items.txt --version 001 --file-id 0000042 --sep ';'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
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

			t, err := c.ReadCSV(cmd.Context(), tabular.CSVOptions{Comma: comma, Encoding: opts.encoding}, args[0])
			if err != nil {
				return err
			}
			f, err := recordsFromTable(t, records.Header{Version: opts.version, FileID: opts.fileID})
			if err != nil {
				return fmt.Errorf("%s: %w", c.Address(args[0]).UNC(), err)
			}
			if err := c.WriteRecords(cmd.Context(), f, client.RecordOptions{Encoding: opts.outEncoding}, args[1]); err != nil {
				return err
			}

			if printer.Format() == output.FormatTable {
				printer.Success(fmt.Sprintf("Wrote %d items to %s", len(f.Items), c.Address(args[1]).UNC()))
				return nil
			}
			return printer.Print(output.NewRecordsView(f))
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", "001", "header version, exactly 3 characters")
	cmd.Flags().StringVar(&opts.fileID, "file-id", "", "header file id, up to 7 characters")
	cmd.Flags().StringVar(&opts.sep, "sep", ",", `CSV field separator, a single character or "tab"`)
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "encoding of SRC (default: connection encoding)")
	cmd.Flags().StringVar(&opts.outEncoding, "out-encoding", "", "encoding of DST (default: connection encoding)")
	_ = cmd.MarkFlagRequired("file-id")
	return cmd
}

// recordsFromTable maps the id, description, and value columns of t to
// record items. Column names are matched case-insensitively.
func recordsFromTable(t *tabular.Table, header records.Header) (*records.File, error) {
	idx := map[string]int{"id": -1, "description": -1, "value": -1}
	for i, name := range t.Columns {
		key := strings.ToLower(strings.TrimSpace(name))
		if j, ok := idx[key]; ok && j < 0 {
			idx[key] = i
		}
	}
	for _, name := range []string{"id", "description", "value"} {
		if idx[name] < 0 {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	f := &records.File{Header: header, Items: make([]records.Item, 0, t.NumRows())}
	for n, row := range t.Rows {
		id, err := strconv.Atoi(strings.TrimSpace(row[idx["id"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid id %q", n+1, row[idx["id"]])
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[idx["value"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value %q", n+1, row[idx["value"]])
		}
		f.Items = append(f.Items, records.Item{ID: id, Description: row[idx["description"]], Value: value})
	}
	return f, nil
}
