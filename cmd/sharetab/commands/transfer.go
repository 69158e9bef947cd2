package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/marmos91/sharetab/internal/cli/output"
	"github.com/spf13/cobra"
)

func newGetCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get REMOTE [LOCAL]",
		Short: "Download a file byte for byte",
		Long: `Copy REMOTE from the share to LOCAL without any decoding. LOCAL defaults
to the base name of REMOTE in the current directory; "-" writes to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			c, err := o.newClient()
			if err != nil {
				return err
			}
			defer closeClient(c, &err)

			addr := c.Address(args[0])
			local := addr.Name()
			if len(args) == 2 {
				local = args[1]
			}

			var w io.Writer = cmd.OutOrStdout()
			if local != "-" {
				f, err := os.Create(local)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}

			n, err := c.Download(cmd.Context(), w, args[0])
			if err != nil {
				return err
			}
			if local != "-" {
				o.reportTransfer(cmd, fmt.Sprintf("Downloaded %d bytes from %s to %s", n, addr.UNC(), local))
			}
			return nil
		},
	}
}

func newPutCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "put LOCAL REMOTE",
		Short: "Upload a file byte for byte",
		Long: `Copy LOCAL to REMOTE on the share without any encoding. REMOTE is replaced
if it exists; its parent directory must exist. "-" reads from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			c, err := o.newClient()
			if err != nil {
				return err
			}
			defer closeClient(c, &err)

			n, err := c.Upload(cmd.Context(), r, args[1])
			if err != nil {
				return err
			}
			o.reportTransfer(cmd, fmt.Sprintf("Uploaded %d bytes from %s to %s", n, args[0], c.Address(args[1]).UNC()))
			return nil
		},
	}
}

// reportTransfer prints msg in table output only.
func (o *globalOptions) reportTransfer(cmd *cobra.Command, msg string) {
	printer, err := o.printer(cmd)
	if err != nil || printer.Format() != output.FormatTable {
		return
	}
	printer.Success(msg)
}
