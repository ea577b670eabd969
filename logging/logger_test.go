package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerDefaultsAndSwap(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	require.NotNil(t, Logger())

	var buf bytes.Buffer
	SetLogger(New(&buf, log.DebugLevel))
	Logger().Debug("processed block", "kind", "table")
	assert.Contains(t, buf.String(), "processed block")
	assert.Contains(t, buf.String(), "kind=table")

	SetLogger(nil)
	buf.Reset()
	Logger().Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"off", log.FatalLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLevel))
}
