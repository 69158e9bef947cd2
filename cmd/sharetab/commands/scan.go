package commands

import (
	"fmt"
	"path"

	"github.com/marmos91/sharetab/internal/cli/output"
	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	pattern   string
	limit     int
	filesOnly bool
	dirsOnly  bool
}

func newScanCmd(o *globalOptions) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [PATH]",
		Short: "Describe the entries of a directory",
		Long: `Scan a directory of the share and print the name, type, size, and
modification time of each entry. Entries are fetched lazily in batches of
transfer.scan_batch_size, so --limit stops the scan early on large directories.

Examples:
  # CSV files in the reports directory
  sharetab scan reports --match '*.csv' --files

  # First 20 entries as JSON
  sharetab scan --limit 20 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if opts.filesOnly && opts.dirsOnly {
				return fmt.Errorf("--files and --dirs are mutually exclusive")
			}
			if opts.pattern != "" {
				if _, err := path.Match(opts.pattern, ""); err != nil {
					return fmt.Errorf("invalid --match pattern: %w", err)
				}
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

			var entries []transport.Entry
			for e, err := range c.ScanDir(cmd.Context(), args...) {
				if err != nil {
					return err
				}
				if !opts.keep(e) {
					continue
				}
				entries = append(entries, e)
				if opts.limit > 0 && len(entries) >= opts.limit {
					break
				}
			}
			return printer.Print(output.NewEntryList(entries))
		},
	}

	cmd.Flags().StringVar(&opts.pattern, "match", "", "only entries whose name matches this glob")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "stop after this many matching entries (0: no limit)")
	cmd.Flags().BoolVar(&opts.filesOnly, "files", false, "only regular files")
	cmd.Flags().BoolVar(&opts.dirsOnly, "dirs", false, "only directories")
	return cmd
}

func (s *scanOptions) keep(e transport.Entry) bool {
	if s.filesOnly && !e.IsFile {
		return false
	}
	if s.dirsOnly && !e.IsDir {
		return false
	}
	if s.pattern != "" {
		ok, _ := path.Match(s.pattern, e.Name)
		return ok
	}
	return true
}
