package models

// Watering controls the irrigation loop of a device.
// Soil thresholds are percentages; the platform accepts 20-60 for the lower
// bound and 40-80 for the upper one.
type Watering struct {
	Manual  bool `json:"manual"`
	SoilMin int  `json:"soilMin" validate:"min=20,max=60"`
	SoilMax int  `json:"soilMax" validate:"min=40,max=80,gtfield=SoilMin"`
}

// Vent controls the ventilation loop. Humidity bounds are percentages.
type Vent struct {
	Manual bool `json:"manual"`
	HumLo  int  `json:"humLo" validate:"min=35,max=55"`
	HumHi  int  `json:"humHi" validate:"min=45,max=70,gtfield=HumLo"`
}

// AlarmWindow is a daily time window in "HH:MM" wall-clock strings.
// Start may be later than End, in which case the window wraps midnight.
type AlarmWindow struct {
	Start string `json:"start" validate:"required,len=5"`
	End   string `json:"end" validate:"required,len=5"`
}

// Security holds the tamper-alarm configuration.
type Security struct {
	Armed       bool        `json:"armed"`
	AlarmWindow AlarmWindow `json:"alarmWindow"`
}

// Settings is the per-device environmental configuration sent on
// PUT /settings.
type Settings struct {
	Watering Watering `json:"watering"`
	Vent     Vent     `json:"vent"`
	Security Security `json:"security"`
}

// DeviceSettings is the full entity returned by GET /settings.
type DeviceSettings struct {
	DeviceMac string   `json:"deviceMac"`
	Watering  Watering `json:"watering"`
	Vent      Vent     `json:"vent"`
	Security  Security `json:"security"`
	UpdatedAt string   `json:"updatedAt"`
}

// Body extracts the updatable part of a DeviceSettings entity.
func (s *DeviceSettings) Body() Settings {
	return Settings{Watering: s.Watering, Vent: s.Vent, Security: s.Security}
}
