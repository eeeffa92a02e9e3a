package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65.9, "1:05"},
		{599, "9:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-3, "0:00"},
		{math.NaN(), "0:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.seconds), "Duration(%v)", tt.seconds)
	}
}

func TestFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FileSize(0))
	assert.Equal(t, "1.5 MB", FileSize(1_500_000))
	assert.Equal(t, "2.0 GB", FileSize(2_000_000_000))
	assert.Equal(t, "0 B", FileSize(-1))
}

func TestAgo(t *testing.T) {
	assert.Equal(t, "3 hours ago", Ago(time.Now().Add(-3*time.Hour)))
}
