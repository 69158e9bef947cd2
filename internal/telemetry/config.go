package telemetry

// Config holds OpenTelemetry tracing configuration
type Config struct {
	// Enabled turns span export on. When false a no-op tracer is installed.
	Enabled bool

	// ServiceName is reported to the trace backend
	ServiceName string

	// ServiceVersion is the version of the binary
	ServiceVersion string

	// Endpoint is the OTLP gRPC endpoint (e.g. "localhost:4317")
	Endpoint string

	// Insecure disables TLS towards the collector
	Insecure bool

	// SampleRate is the trace sampling rate between 0.0 and 1.0
	SampleRate float64
}

// DefaultConfig returns a configuration with tracing disabled
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "sharetab",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
