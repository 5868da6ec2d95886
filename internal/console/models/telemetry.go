package models

import "time"

// Telemetry is one sample pushed by a device. Accel axes are raw counts,
// whatever the MCU reports.
type Telemetry struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Soil        float64   `json:"soil"`
	Lux         float64   `json:"lux"`
	Level       float64   `json:"level"`
	Motion      bool      `json:"motion"`
	Tamper      bool      `json:"tamper"`
	AccelX      float64   `json:"accelX"`
	AccelY      float64   `json:"accelY"`
	AccelZ      float64   `json:"accelZ"`
}

// TelemetryRange describes the recorded span for a device and whether the
// device is currently reporting.
type TelemetryRange struct {
	First  *time.Time `json:"first"`
	Last   *time.Time `json:"last"`
	Online bool       `json:"online"`
}
