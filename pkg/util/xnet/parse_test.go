package xnet

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStart string
		wantEnd   string
		wantErr   error
	}{
		{name: "single IP", input: "192.168.1.1", wantStart: "192.168.1.1", wantEnd: "192.168.1.1"},
		{name: "CIDR /24", input: "192.168.1.0/24", wantStart: "192.168.1.0", wantEnd: "192.168.1.255"},
		{name: "unmasked CIDR", input: "192.168.1.77/24", wantStart: "192.168.1.0", wantEnd: "192.168.1.255"},
		{name: "explicit range", input: "10.0.0.1-10.0.0.100", wantStart: "10.0.0.1", wantEnd: "10.0.0.100"},
		{name: "range with spaces", input: " 10.0.0.1 - 10.0.0.2 ", wantStart: "10.0.0.1", wantEnd: "10.0.0.2"},
		{name: "mapped IPv4", input: "::ffff:10.0.0.1", wantStart: "10.0.0.1", wantEnd: "10.0.0.1"},
		{name: "invalid", input: "invalid", wantErr: ErrInvalidRange},
		{name: "invalid range start", input: "invalid-10.0.0.1", wantErr: ErrInvalidRange},
		{name: "invalid range end", input: "10.0.0.1-x", wantErr: ErrInvalidRange},
		{name: "inverted range", input: "10.0.0.9-10.0.0.1", wantErr: ErrInvalidRange},
		{name: "invalid CIDR", input: "192.168.1.0/99", wantErr: ErrInvalidRange},
		{name: "IPv6 address", input: "2001:db8::1", wantErr: ErrNotIPv4},
		{name: "IPv6 CIDR", input: "2001:db8::/32", wantErr: ErrNotIPv4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, r.From().String())
			assert.Equal(t, tt.wantEnd, r.To().String())
		})
	}
}

func TestParseRanges(t *testing.T) {
	set, err := ParseRanges([]string{
		"10.0.0.1-10.0.0.100",
		"10.0.0.50-10.0.0.150",
		"192.168.1.0/24",
	})
	require.NoError(t, err)

	assert.Len(t, set.Ranges(), 2)
	assert.True(t, set.Contains(netip.MustParseAddr("10.0.0.120")))
	assert.False(t, set.Contains(netip.MustParseAddr("10.0.0.151")))
	assert.Equal(t, uint64(150+256), SetSizeUint64(set))
}

func TestParseRanges_Empty(t *testing.T) {
	set, err := ParseRanges(nil)
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Empty(t, set.Ranges())
	assert.Equal(t, uint64(0), SetSizeUint64(set))
}

func TestParseRanges_Error(t *testing.T) {
	_, err := ParseRanges([]string{"10.0.0.0/8", "bogus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Contains(t, err.Error(), `"bogus"`)
}
