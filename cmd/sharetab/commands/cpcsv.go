package commands

import (
	"fmt"

	"github.com/marmos91/sharetab/internal/cli/output"
	"github.com/marmos91/sharetab/pkg/tabular"
	"github.com/spf13/cobra"
)

type cpCSVOptions struct {
	sep         string
	outSep      string
	encoding    string
	outEncoding string
	noHeader    bool
	crlf        bool
}

// copyResult is printed by cp-csv in json and yaml output.
type copyResult struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Rows        int    `json:"rows" yaml:"rows"`
	Columns     int    `json:"columns" yaml:"columns"`
}

func newCpCSVCmd(o *globalOptions) *cobra.Command {
	opts := &cpCSVOptions{}
	cmd := &cobra.Command{
		Use:   "cp-csv SRC DST",
		Short: "Copy a CSV file, optionally changing its separator and encoding",
		Long: `Read the CSV file SRC and write it to DST on the same share. The output
separator and encoding default to the input ones; DST is replaced if it exists.

Example:
  sharetab cp-csv in/q1.csv out/q1.csv --sep ';' --encoding latin-1 --out-sep ',' --out-encoding utf-8`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in, out, err := opts.csvOptions()
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

			t, err := c.ReadCSV(cmd.Context(), in, args[0])
			if err != nil {
				return err
			}
			if err := c.WriteCSV(cmd.Context(), t, out, args[1]); err != nil {
				return err
			}

			res := copyResult{
				Source:      c.Address(args[0]).UNC(),
				Destination: c.Address(args[1]).UNC(),
				Rows:        t.NumRows(),
				Columns:     t.NumColumns(),
			}
			if printer.Format() == output.FormatTable {
				printer.Success(fmt.Sprintf("Copied %d rows from %s to %s", res.Rows, res.Source, res.Destination))
				return nil
			}
			return printer.Print(res)
		},
	}

	cmd.Flags().StringVar(&opts.sep, "sep", ",", `input field separator, a single character or "tab"`)
	cmd.Flags().StringVar(&opts.outSep, "out-sep", "", "output field separator (default: --sep)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "input encoding (default: connection encoding)")
	cmd.Flags().StringVar(&opts.outEncoding, "out-encoding", "", "output encoding (default: --encoding)")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "the input has no header line; none is written")
	cmd.Flags().BoolVar(&opts.crlf, "crlf", false, "end output lines with CRLF")
	return cmd
}

func (p *cpCSVOptions) csvOptions() (in, out tabular.CSVOptions, err error) {
	comma, err := parseSeparator(p.sep)
	if err != nil {
		return in, out, err
	}
	outComma := comma
	if p.outSep != "" {
		if outComma, err = parseSeparator(p.outSep); err != nil {
			return in, out, err
		}
	}
	outEncoding := p.outEncoding
	if outEncoding == "" {
		outEncoding = p.encoding
	}

	in = tabular.CSVOptions{Comma: comma, NoHeader: p.noHeader, Encoding: p.encoding}
	out = tabular.CSVOptions{Comma: outComma, NoHeader: p.noHeader, UseCRLF: p.crlf, Encoding: outEncoding}
	return in, out, nil
}
