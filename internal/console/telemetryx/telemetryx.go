// Package telemetryx holds small presentation helpers for telemetry rows.
package telemetryx

// InWindow reports whether the "HH:MM" wall-clock time t falls inside the
// daily window [start, end). A window whose start equals its end covers the
// whole day; a window whose start is later than its end wraps midnight.
func InWindow(t, start, end string) bool {
	if start == end {
		return true
	}
	if start < end {
		return t >= start && t < end
	}
	return t >= start || t < end
}

// WaterGauge renders a coarse water-level gauge for list views.
func WaterGauge(level float64) string {
	switch {
	case level >= 70:
		return "|||"
	case level >= 40:
		return "||"
	case level >= 10:
		return "|"
	}
	return "-"
}
