package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	// Reinitialize logger with test output
	logger = nil
	InitLogger(level, format)

	fn()

	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		format   OutputFormat
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			format:   FormatText,
			logFn:    func() { Info("downloading file", Fields{"path": "mods/sodium.jar"}) },
			contains: []string{"downloading file", "path=mods/sodium.jar"},
		},
		{
			name:     "debug log with debug level",
			level:    "debug",
			format:   FormatText,
			logFn:    func() { Debug("skip existing file") },
			contains: []string{"skip existing file", "level=DEBUG"},
		},
		{
			name:     "debug log with info level",
			level:    "info",
			format:   FormatText,
			logFn:    func() { Debug("skip existing file") },
			excludes: []string{"skip existing file"},
		},
		{
			name:     "formatted error",
			level:    "info",
			format:   FormatText,
			logFn:    func() { Errorf("fetch failed after %d bytes", 42) },
			contains: []string{"fetch failed after 42 bytes", "level=ERROR"},
		},
		{
			name:     "json format",
			level:    "info",
			format:   FormatJSON,
			logFn:    func() { Warn("retrying", Fields{"attempt": 2}) },
			contains: []string{`"msg":"retrying"`, `"attempt":2`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.format, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, output, unwanted)
			}
		})
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	output := captureOutput(t, "bogus", FormatText, func() {
		Debug("hidden")
		Info("shown")
	})
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown")
}
