package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer and restores the previous
// settings when the test ends.
func captureOutput(t *testing.T, level, format string) *bytes.Buffer {
	t.Helper()

	mu.RLock()
	prevOutput, prevColor := output, useColor
	mu.RUnlock()
	prevLevel := GetLevel()
	prevFormat, _ := currentFormat.Load().(string)

	buf := new(bytes.Buffer)
	InitWithWriter(buf, level, format, false)

	t.Cleanup(func() {
		mu.Lock()
		output, useColor = prevOutput, prevColor
		mu.Unlock()
		currentLevel.Store(int32(prevLevel))
		currentFormat.Store(prevFormat)
		reconfigure()
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugShowsAll", func(t *testing.T) {
		buf := captureOutput(t, "DEBUG", "text")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		for _, want := range []string{"[DEBUG] debug message", "[INFO] info message", "[WARN] warn message", "[ERROR] error message"} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("WarnFiltersLower", func(t *testing.T) {
		buf := captureOutput(t, "WARN", "text")

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
	})

	t.Run("ErrorAlwaysLogged", func(t *testing.T) {
		buf := captureOutput(t, "ERROR", "text")
		Error("boom")
		assert.Contains(t, buf.String(), "boom")
	})
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	captureOutput(t, "WARN", "text")
	SetLevel("LOUD")
	assert.Equal(t, LevelWarn, GetLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{" INFO ", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"Error", LevelError, true},
		{"trace", LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextFormatting(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	Info("opened", KeyPath, `reports\q1.csv`, KeyBytesRead, int64(42), KeyDurationMs, 1.5)

	line := buf.String()
	assert.Contains(t, line, `path=reports\q1.csv`)
	assert.Contains(t, line, "bytes_read=42")
	assert.Contains(t, line, "duration_ms=1.500")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestTextQuotesValuesWithSpaces(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	Info("failed", KeyError, "access denied")

	assert.Contains(t, buf.String(), `error="access denied"`)
}

func TestTextGroupsAndWith(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	With(KeyServer, "fs01").WithGroup("conn").Info("dialed", "port", 445)

	line := buf.String()
	assert.Contains(t, line, "server=fs01")
	assert.Contains(t, line, "conn.port=445")
}

func TestErrAttrDroppedWhenNil(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	Info("done", Err(nil))
	Info("failed", Err(errors.New("bad")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "error=")
	assert.Contains(t, lines[1], "error=bad")
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t, "INFO", "json")

	Info("listed", KeyEntries, 4)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "listed", rec["msg"])
	assert.Equal(t, float64(4), rec[KeyEntries])
}

func TestContextFields(t *testing.T) {
	buf := captureOutput(t, "DEBUG", "json")

	lc := NewLogContext("open_read", "fs01", "data").WithPath(`in\a.csv`)
	lc.RequestID = "req-1"
	ctx := WithContext(context.Background(), lc.WithTrace("t1", "s1"))

	InfoCtx(ctx, "opened", KeyBytesRead, int64(10))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-1", rec[KeyRequestID])
	assert.Equal(t, "t1", rec[KeyTraceID])
	assert.Equal(t, "s1", rec[KeySpanID])
	assert.Equal(t, "open_read", rec[KeyOperation])
	assert.Equal(t, "fs01", rec[KeyServer])
	assert.Equal(t, "data", rec[KeyShare])
	assert.Equal(t, `in\a.csv`, rec[KeyPath])
}

func TestContextWithoutLogContext(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	WarnCtx(context.Background(), "plain")

	assert.Contains(t, buf.String(), "[WARN] plain")
	assert.NotContains(t, buf.String(), KeyRequestID)
}

func TestLogContextCloneIsIndependent(t *testing.T) {
	lc := NewLogContext("list", "fs01", "data")
	child := lc.WithPath("sub")

	assert.Empty(t, lc.Path)
	assert.Equal(t, "sub", child.Path)
	assert.Nil(t, (*LogContext)(nil).Clone())
	assert.Zero(t, (*LogContext)(nil).DurationMs())
}

func TestColorTextHandlerColors(t *testing.T) {
	buf := new(bytes.Buffer)
	h := NewColorTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}, true)

	slog.New(h).Error("red", "k", "v")

	assert.Contains(t, buf.String(), colorRed+"ERROR"+colorReset)
	assert.Contains(t, buf.String(), colorCyan+"k"+colorReset+"=v")
}

func TestInitRejectsUnwritableFile(t *testing.T) {
	err := Init(Config{Output: t.TempDir() + "/missing/dir/log.txt"})
	require.Error(t, err)
}
