package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "", want: zapcore.WarnLevel},
		{in: "debug", want: zapcore.DebugLevel},
		{in: "INFO", want: zapcore.InfoLevel},
		{in: "warning", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWritesToConfiguredOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.log")

	log, err := New(Options{Level: "info", Format: "json", Outputs: []string{path}})
	require.NoError(t, err)
	log.With("store", "contacts").Info("loaded", "count", 3)
	log.Debug("hidden")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"loaded"`)
	assert.Contains(t, string(data), `"store":"contacts"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	log := NewNop()
	log.Warn("nothing happens", "k", "v")
	log.Sync()
}
