package config

import (
	"strings"

	"github.com/marmos91/sharetab/internal/bytesize"
	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/marmos91/sharetab/pkg/transport/smb"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values are replaced with defaults; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyConnectionDefaults(&cfg.Connection)
	applyTransferDefaults(&cfg.Transfer)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	// stdout carries command output
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

// applyConnectionDefaults sets share connection defaults.
func applyConnectionDefaults(cfg *ConnectionConfig) {
	if cfg.Port == 0 {
		cfg.Port = smb.DefaultPort
	}
	if cfg.Encoding == "" {
		cfg.Encoding = transport.DefaultEncoding
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = smb.DefaultDialTimeout
	}
}

// applyTransferDefaults sets scan and copy defaults.
func applyTransferDefaults(cfg *TransferConfig) {
	if cfg.ScanBatchSize == 0 {
		cfg.ScanBatchSize = transport.DefaultScanBatchSize
	}
	if cfg.CopyBuffer == 0 {
		cfg.CopyBuffer = 64 * bytesize.KiB
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Insecure: true,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
