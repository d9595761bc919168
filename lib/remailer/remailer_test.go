package remailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatency(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"2:26:47", 2*time.Hour + 26*time.Minute + 47*time.Second},
		{"41:53", 41*time.Minute + 53*time.Second},
		{"0:00", 0},
		{"12:05:00", 12*time.Hour + 5*time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseLatency(tt.in)
		require.NoError(t, err, "latency %q", tt.in)
		assert.Equal(t, tt.want, got, "latency %q", tt.in)
	}
}

func TestParseLatencyRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "99", "1:99:00", "1:00:99", "-1:00:00"} {
		_, err := ParseLatency(in)
		assert.Error(t, err, "latency %q", in)
	}
}
