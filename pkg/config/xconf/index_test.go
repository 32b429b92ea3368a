package xconf

import (
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/ipindex/pkg/scan/xrange"
)

func TestDefaultIndexConfig(t *testing.T) {
	cfg := DefaultIndexConfig()
	require.NoError(t, cfg.Validate())

	bounds, err := cfg.Bounds()
	require.NoError(t, err)
	for _, b := range bounds {
		assert.Equal(t, xrange.Full(), b)
	}
	assert.True(t, cfg.Stdout())
	assert.Equal(t, ModeSequential, cfg.Mode)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoadIndexConfigBytes_YAML(t *testing.T) {
	data := `
ranges: ["10", "0-3", "0-255", "7"]
batch_size: 1000
mode: parallel
workers: 4
ordered: false
exclude: ["10.0.0.0/24", "10.1.2.7"]
output: /tmp/out.txt
log:
  level: debug
progress_interval: 5s
`
	cfg, err := LoadIndexConfigBytes([]byte(data), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"10", "0-3", "0-255", "7"}, cfg.Ranges)
	assert.Equal(t, 1000, cfg.BatchSize)
	assert.Equal(t, ModeParallel, cfg.Mode)
	assert.Equal(t, 4, cfg.Workers)
	assert.False(t, cfg.Ordered)
	assert.Equal(t, "/tmp/out.txt", cfg.Output)
	assert.False(t, cfg.Stdout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.ProgressInterval)

	set, err := cfg.ExcludeSet()
	require.NoError(t, err)
	assert.True(t, set.Contains(netip.MustParseAddr("10.0.0.9")))
	assert.True(t, set.Contains(netip.MustParseAddr("10.1.2.7")))
	assert.False(t, set.Contains(netip.MustParseAddr("10.1.2.8")))
}

func TestLoadIndexConfig_JSONFile(t *testing.T) {
	path := createTempFile(t, "index.json", `{"ranges": ["192", "168", "0-1", "0-255"], "batch_size": 64}`)
	cfg, err := LoadIndexConfig(path)
	require.NoError(t, err)

	bounds, err := cfg.Bounds()
	require.NoError(t, err)
	assert.Equal(t, xrange.Bound{Lower: 0, Upper: 1}, bounds[2])
	assert.Equal(t, 64, cfg.BatchSize)
	assert.Equal(t, ModeSequential, cfg.Mode)
}

func TestLoadIndexConfig_Errors(t *testing.T) {
	_, err := LoadIndexConfig("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = LoadIndexConfigBytes([]byte(`{"batch_size": "many"}`), FormatJSON)
	assert.ErrorIs(t, err, ErrUnmarshalFailed)

	_, err = LoadIndexConfigBytes([]byte(`{"batch_size": 0}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestIndexConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*IndexConfig)
		want   string
	}{
		{"three ranges", func(c *IndexConfig) { c.Ranges = c.Ranges[:3] }, "want 4 octet bounds"},
		{"inverted range", func(c *IndexConfig) { c.Ranges[1] = "9-3" }, "ranges[1]"},
		{"bad range", func(c *IndexConfig) { c.Ranges[3] = "256" }, "ranges[3]"},
		{"zero batch", func(c *IndexConfig) { c.BatchSize = 0 }, "batch_size"},
		{"zero workers", func(c *IndexConfig) { c.Workers = 0 }, "workers"},
		{"too many workers", func(c *IndexConfig) { c.Workers = MaxWorkers + 1 }, "workers"},
		{"bad mode", func(c *IndexConfig) { c.Mode = "random" }, `unknown mode "random"`},
		{"bad exclude", func(c *IndexConfig) { c.Exclude = []string{"::1"} }, "exclude"},
		{"bad level", func(c *IndexConfig) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *IndexConfig) { c.Log.Format = "xml" }, "log.format"},
		{"negative interval", func(c *IndexConfig) { c.ProgressInterval = -time.Second }, "progress_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultIndexConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestIndexConfig_ValidateCollectsAll(t *testing.T) {
	cfg := DefaultIndexConfig()
	cfg.BatchSize = -1
	cfg.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "batch_size") && strings.Contains(err.Error(), "workers"))

	cfg.Ranges = []string{"1"}
	_, err = cfg.Bounds()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
