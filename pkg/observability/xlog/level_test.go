package xlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/ipindex/pkg/observability/xlog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    xlog.Level
		wantErr bool
	}{
		{"debug", xlog.LevelDebug, false},
		{" INFO ", xlog.LevelInfo, false},
		{"warning", xlog.LevelWarn, false},
		{"Warn", xlog.LevelWarn, false},
		{"error", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
		{"", xlog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_Text(t *testing.T) {
	b, err := xlog.LevelWarn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "WARN", string(b))

	var l xlog.Level
	require.NoError(t, l.UnmarshalText([]byte("debug")))
	assert.Equal(t, xlog.LevelDebug, l)
	assert.Error(t, l.UnmarshalText([]byte("nope")))

	assert.Equal(t, "INFO+2", xlog.Level(2).String())
}

func TestVerbosityLevel(t *testing.T) {
	assert.Equal(t, xlog.LevelWarn, xlog.VerbosityLevel(-1))
	assert.Equal(t, xlog.LevelWarn, xlog.VerbosityLevel(0))
	assert.Equal(t, xlog.LevelInfo, xlog.VerbosityLevel(1))
	assert.Equal(t, xlog.LevelDebug, xlog.VerbosityLevel(2))
	assert.Equal(t, xlog.LevelDebug, xlog.VerbosityLevel(7))

	logger, _, err := xlog.New().SetVerbosity(1).Build()
	require.NoError(t, err)
	assert.Equal(t, xlog.LevelInfo, logger.GetLevel())
}
