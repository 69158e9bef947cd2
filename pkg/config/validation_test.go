package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("Expected error for nil config")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_Port(t *testing.T) {
	for _, port := range []int{-1, 70000} {
		cfg := GetDefaultConfig()
		cfg.Connection.Port = port

		if err := Validate(cfg); err == nil {
			t.Errorf("Expected validation error for port %d", port)
		}
	}
}

func TestValidate_Encoding(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF8", "latin-1", "cp1252", "ISO-8859-15", "windows-1250"} {
		cfg := GetDefaultConfig()
		cfg.Connection.Encoding = name
		if err := Validate(cfg); err != nil {
			t.Errorf("Expected encoding %q to be accepted, got: %v", name, err)
		}
	}

	cfg := GetDefaultConfig()
	cfg.Connection.Encoding = "klingon"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unknown encoding")
	}
	if !strings.Contains(err.Error(), "encoding") {
		t.Errorf("Expected 'encoding' validation error, got: %v", err)
	}
}

func TestValidate_SampleRate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for sample rate above 1")
	}
}

func TestValidate_MetricsTextfile(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.Enabled = true

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for metrics without textfile")
	}

	cfg.Metrics.Textfile = "/tmp/sharetab.prom"
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid metrics config, got: %v", err)
	}
}

func TestValidate_Transfer(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Transfer.ScanBatchSize = 0

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for zero scan batch size")
	}
}
