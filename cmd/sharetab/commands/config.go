package commands

import (
	"fmt"

	"github.com/marmos91/sharetab/internal/cli/output"
	"github.com/marmos91/sharetab/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long: `Manage the sharetab configuration file.

Subcommands:
  init      Create a configuration file with default values
  show      Display the effective configuration`,
		Annotations: map[string]string{skipSetup: "true"},
	}
	cmd.AddCommand(newConfigInitCmd(o), newConfigShowCmd(o))
	return cmd
}

func newConfigInitCmd(o *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with default values",
		Long: `Create a configuration file with default values.

By default, the file is created at $XDG_CONFIG_HOME/sharetab/config.yaml.
Use --config to choose another path.

Examples:
  sharetab config init
  sharetab config init --config ./sharetab.yaml --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.configFile
			var err error
			if path != "" {
				err = config.InitConfigAt(path, force)
			} else {
				path, err = config.InitConfig(force)
			}
			if err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Configuration file created at: %s\n", path)
			_, _ = fmt.Fprintln(w, "\nNext steps:")
			_, _ = fmt.Fprintln(w, "  1. Set connection.server, connection.share, and connection.username")
			_, _ = fmt.Fprintln(w, "  2. Export SHARETAB_CONNECTION_PASSWORD or let sharetab prompt for it")
			_, _ = fmt.Fprintln(w, "  3. Try it with: sharetab ls")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing config file")
	return cmd
}

func newConfigShowCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the configuration after defaults, environment variables, and
flags are applied. The password is masked. Output is YAML unless --output
selects json.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.configFile)
			if err != nil {
				return err
			}
			o.applyFlags(cmd.Flags(), cfg)
			if cfg.Connection.Password != "" {
				cfg.Connection.Password = "********"
			}

			format := output.FormatYAML
			if cmd.Flags().Changed("output") {
				if format, err = output.ParseFormat(o.output); err != nil {
					return err
				}
			}
			if format == output.FormatJSON {
				return output.PrintJSON(cmd.OutOrStdout(), cfg)
			}
			return output.PrintYAML(cmd.OutOrStdout(), cfg)
		},
	}
}
