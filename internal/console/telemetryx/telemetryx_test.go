package telemetryx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInWindow_Simple(t *testing.T) {
	require.True(t, InWindow("12:00", "09:00", "17:00"))
	require.True(t, InWindow("09:00", "09:00", "17:00"))
	require.False(t, InWindow("17:00", "09:00", "17:00"))
	require.False(t, InWindow("08:59", "09:00", "17:00"))
}

func TestInWindow_WrapsMidnight(t *testing.T) {
	require.True(t, InWindow("23:30", "22:00", "06:00"))
	require.True(t, InWindow("02:00", "22:00", "06:00"))
	require.False(t, InWindow("12:00", "22:00", "06:00"))
	require.False(t, InWindow("06:00", "22:00", "06:00"))
}

func TestInWindow_DegenerateCoversAll(t *testing.T) {
	require.True(t, InWindow("00:00", "10:00", "10:00"))
	require.True(t, InWindow("23:59", "10:00", "10:00"))
}

func TestWaterGauge(t *testing.T) {
	require.Equal(t, "|||", WaterGauge(85))
	require.Equal(t, "|||", WaterGauge(70))
	require.Equal(t, "||", WaterGauge(55))
	require.Equal(t, "|", WaterGauge(10))
	require.Equal(t, "-", WaterGauge(3))
}
