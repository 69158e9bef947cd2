package prometheus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marmos91/sharetab/pkg/metrics"
	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransportMetricsDisabled(t *testing.T) {
	metrics.Reset()
	assert.Nil(t, NewTransportMetrics())
	assert.Nil(t, metrics.NewTransportMetrics())
}

func TestTransportMetricsRecord(t *testing.T) {
	metrics.InitRegistry()
	t.Cleanup(metrics.Reset)

	m, ok := metrics.NewTransportMetrics().(*transportMetrics)
	require.True(t, ok, "constructor registered by init")

	m.ObserveConnect("fs01", 20*time.Millisecond, nil)
	m.ObserveConnect("fs01", time.Second, errors.New("logon failure"))
	m.ObserveOperation(transport.OpOpenRead, 3*time.Millisecond, nil)
	m.ObserveOperation(transport.OpList, time.Millisecond, errors.New("not found"))
	m.RecordBytes(transport.DirectionRead, 128)
	m.RecordBytes(transport.DirectionRead, 72)
	m.RecordEntries(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.connectsTotal.WithLabelValues("fs01", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connectsTotal.WithLabelValues("fs01", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues(transport.OpList, "error")))
	assert.Equal(t, 200.0, testutil.ToFloat64(m.bytesTotal.WithLabelValues(transport.DirectionRead)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.entriesTotal))
}

func TestWriteTextfile(t *testing.T) {
	metrics.InitRegistry()
	t.Cleanup(metrics.Reset)

	m := metrics.NewTransportMetrics()
	m.RecordEntries(2)

	path := filepath.Join(t.TempDir(), "sharetab.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "sharetab_directory_entries_total 2"))
}

func TestWriteTextfileDisabled(t *testing.T) {
	metrics.Reset()
	path := filepath.Join(t.TempDir(), "none.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
