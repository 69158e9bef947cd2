package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/marmos91/sharetab/internal/cli/output"
	"github.com/marmos91/sharetab/internal/cli/prompt"
	"github.com/marmos91/sharetab/internal/logger"
	"github.com/marmos91/sharetab/internal/telemetry"
	"github.com/marmos91/sharetab/pkg/client"
	"github.com/marmos91/sharetab/pkg/config"
	"github.com/marmos91/sharetab/pkg/metrics"
	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// globalOptions holds the persistent flags and the state built from them
// before a command runs.
type globalOptions struct {
	configFile string
	server     string
	share      string
	port       int
	username   string
	domain     string
	encoding   string
	output     string
	noColor    bool
	verbose    bool

	cfg     *config.Config
	metrics transport.Metrics
	// dialer replaces the SMB dialer, for tests.
	dialer   transport.Dialer
	shutdown []func(context.Context) error
}

// setup loads configuration, applies flag overrides, and initializes
// logging, tracing, and metrics.
func (o *globalOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	o.applyFlags(cmd.Flags(), cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if err := initLogger(cfg); err != nil {
		return err
	}

	telemetryShutdown, err := telemetry.Init(cmd.Context(), telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "sharetab",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	o.shutdown = append(o.shutdown, telemetryShutdown)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		o.metrics = metrics.NewTransportMetrics()
		textfile := cfg.Metrics.Textfile
		o.shutdown = append(o.shutdown, func(context.Context) error {
			return metrics.WriteTextfile(textfile)
		})
	}

	logger.Debug("Configuration loaded",
		logger.Server(cfg.Connection.Server),
		logger.Share(cfg.Connection.Share),
		logger.Encoding(cfg.Connection.Encoding),
		"telemetry", telemetry.IsEnabled(),
		"metrics", cfg.Metrics.Enabled)

	o.cfg = cfg
	return nil
}

// applyFlags overrides cfg with the flags set on the command line.
func (o *globalOptions) applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	conn := &cfg.Connection
	if fs.Changed("server") {
		conn.Server = o.server
	}
	if fs.Changed("share") {
		conn.Share = o.share
	}
	if fs.Changed("port") {
		conn.Port = o.port
	}
	if fs.Changed("user") {
		conn.Username = o.username
	}
	if fs.Changed("domain") {
		conn.Domain = o.domain
	}
	if fs.Changed("default-encoding") {
		conn.Encoding = o.encoding
	}
	if o.verbose {
		cfg.Logging.Level = "DEBUG"
	}
	if o.noColor {
		cfg.Logging.NoColor = true
	}
}

// teardown runs the shutdown hooks registered by setup in reverse order.
func (o *globalOptions) teardown(ctx context.Context) error {
	var errs []error
	for _, fn := range slices.Backward(o.shutdown) {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	o.shutdown = nil
	return errors.Join(errs...)
}

// initLogger initializes the structured logger from configuration.
func initLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		NoColor: cfg.Logging.NoColor,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// newClient builds a client for the configured share, prompting for the
// password when a username is set without one.
func (o *globalOptions) newClient() (*client.Client, error) {
	conn := o.cfg.Connection
	if conn.Server == "" || conn.Share == "" {
		return nil, errors.New("no share configured: pass --server and --share, " +
			"or set connection.server and connection.share in the config file")
	}

	password := conn.Password
	if password == "" && conn.Username != "" {
		var err error
		if password, err = readPassword(conn); err != nil {
			return nil, err
		}
	}

	opts := []client.Option{
		client.WithMetrics(o.metrics),
		client.WithDialTimeout(conn.DialTimeout),
		client.WithScanBatchSize(o.cfg.Transfer.ScanBatchSize),
		client.WithCopyBufferSize(o.cfg.Transfer.CopyBuffer.Int()),
	}
	if o.dialer != nil {
		opts = append(opts, client.WithDialer(o.dialer))
	}

	return client.New(client.Properties{
		Server:   conn.Server,
		Share:    conn.Share,
		Port:     conn.Port,
		Username: conn.Username,
		Password: password,
		Domain:   conn.Domain,
		Encoding: conn.Encoding,
	}, opts...)
}

func readPassword(conn config.ConnectionConfig) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no password for %s: set SHARETAB_CONNECTION_PASSWORD or run from a terminal", conn.Username)
	}
	password, err := prompt.Password(fmt.Sprintf("Password for %s@%s", conn.Username, conn.Server))
	if err != nil {
		if prompt.IsAborted(err) {
			return "", prompt.ErrAborted
		}
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// printer returns a Printer for the --output format writing to the command's
// output stream.
func (o *globalOptions) printer(cmd *cobra.Command) (*output.Printer, error) {
	format, err := output.ParseFormat(o.output)
	if err != nil {
		return nil, err
	}
	w := cmd.OutOrStdout()
	return output.NewPrinter(w, format, !o.noColor && isTerminal(w)), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// closeClient closes c and reports a failure only when the command itself
// succeeded.
func closeClient(c *client.Client, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
