package types

import "time"

// Conditions is the evaluated standard atmosphere at one altitude.
type Conditions struct {
	AltitudeM    float64 `json:"altitude_m"`
	TemperatureK float64 `json:"temperature_k"`
	PressurePa   float64 `json:"pressure_pa"`
	DensityKgM3  float64 `json:"density_kg_m3"`
}

// LayerInfo describes one layer of the reference table.
type LayerInfo struct {
	Name             string  `json:"name"`
	BaseAltitudeM    float64 `json:"base_altitude_m"`
	BaseTemperatureK float64 `json:"base_temperature_k"`
	LapseRateKPerM   float64 `json:"lapse_rate_k_per_m"`
	BasePressurePa   float64 `json:"base_pressure_pa"`
	BaseDensityKgM3  float64 `json:"base_density_kg_m3"`
}

// Sounding records one computed profile request.
type Sounding struct {
	ID          int64     `json:"id"`
	RequestedAt time.Time `json:"requested_at"`
	FromM       float64   `json:"from_m"`
	ToM         float64   `json:"to_m"`
	StepM       float64   `json:"step_m"`
	Samples     int       `json:"samples"`
}
