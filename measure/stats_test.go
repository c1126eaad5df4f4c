package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsMedianOfFour(t *testing.T) {
	stats := Stats([]uint16{100, 300, 200, 600})
	assert.Equal(t, uint16(250), stats.Median)
	assert.Equal(t, uint16(100), stats.Min)
	assert.Equal(t, uint16(600), stats.Max)
	assert.Equal(t, uint16(300), stats.Mean)
	assert.Equal(t, uint16(187), stats.Stddev)
}

func TestStatsOddCount(t *testing.T) {
	stats := Stats([]uint16{5, 1, 3})
	assert.Equal(t, uint16(3), stats.Median)
	assert.Equal(t, uint16(1), stats.Min)
	assert.Equal(t, uint16(5), stats.Max)
	assert.Equal(t, uint16(3), stats.Mean)
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)
	assert.Zero(t, stats)
}

func TestStatsConstantSamples(t *testing.T) {
	stats := Stats([]uint16{42, 42, 42, 42})
	assert.Equal(t, uint16(42), stats.Mean)
	assert.Equal(t, uint16(42), stats.Median)
	assert.Equal(t, uint16(0), stats.Stddev)
}

func TestClampSampleCount(t *testing.T) {
	require.Equal(t, uint8(DefaultSamples), ClampSampleCount(0))
	require.Equal(t, uint8(DefaultSamples), ClampSampleCount(MaxSamples+1))
	require.Equal(t, uint8(1), ClampSampleCount(1))
	require.Equal(t, uint8(MaxSamples), ClampSampleCount(MaxSamples))
}
