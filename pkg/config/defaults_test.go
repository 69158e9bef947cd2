package config

import (
	"testing"
	"time"

	"github.com/marmos91/sharetab/internal/bytesize"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default log output 'stderr', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Connection(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Connection.Port != 445 {
		t.Errorf("Expected default port 445, got %d", cfg.Connection.Port)
	}
	if cfg.Connection.Encoding != "utf-8" {
		t.Errorf("Expected default encoding 'utf-8', got %q", cfg.Connection.Encoding)
	}
	if cfg.Connection.DialTimeout != 30*time.Second {
		t.Errorf("Expected default dial timeout 30s, got %v", cfg.Connection.DialTimeout)
	}
}

func TestApplyDefaults_Transfer(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Transfer.ScanBatchSize != 64 {
		t.Errorf("Expected default scan batch size 64, got %d", cfg.Transfer.ScanBatchSize)
	}
	if cfg.Transfer.CopyBuffer != 64*bytesize.KiB {
		t.Errorf("Expected default copy buffer 64KiB, got %v", cfg.Transfer.CopyBuffer)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
			Output: "/var/log/sharetab.log",
		},
		Telemetry: TelemetryConfig{
			Endpoint:   "collector:4317",
			SampleRate: 0.25,
		},
		Connection: ConnectionConfig{
			Port:        1445,
			Encoding:    "cp1252",
			DialTimeout: 5 * time.Second,
		},
		Transfer: TransferConfig{
			ScanBatchSize: 10,
			CopyBuffer:    bytesize.MiB,
		},
	}

	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected normalized level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Output != "/var/log/sharetab.log" {
		t.Errorf("Logging values overwritten: %+v", cfg.Logging)
	}
	if cfg.Telemetry.Endpoint != "collector:4317" || cfg.Telemetry.SampleRate != 0.25 {
		t.Errorf("Telemetry values overwritten: %+v", cfg.Telemetry)
	}
	if cfg.Connection.Port != 1445 || cfg.Connection.Encoding != "cp1252" || cfg.Connection.DialTimeout != 5*time.Second {
		t.Errorf("Connection values overwritten: %+v", cfg.Connection)
	}
	if cfg.Transfer.ScanBatchSize != 10 || cfg.Transfer.CopyBuffer != bytesize.MiB {
		t.Errorf("Transfer values overwritten: %+v", cfg.Transfer)
	}
}
