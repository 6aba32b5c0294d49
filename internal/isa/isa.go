// Package isa evaluates the International Standard Atmosphere model:
// temperature, pressure and density as a function of geometric altitude,
// piecewise over the six layers from the troposphere up to the mesopause
// (71 km). All functions are pure; the layer table is never mutated.
package isa

import (
	"errors"
	"fmt"
	"math"
)

// Physical constants used by the barometric formula.
const (
	gravity     = 9.81     // m/s²
	molarMass   = 0.028964 // kg/mol, dry air
	gasConstant = 8.314    // J/(mol·K)
)

// MaxAltitude is the exclusive upper bound of the modeled atmosphere in
// meters. The model defines no layer at or above this altitude.
const MaxAltitude = 71000.0

var (
	// ErrAltitudeOutOfRange is returned for altitudes at or above MaxAltitude.
	ErrAltitudeOutOfRange = errors.New("altitude outside modeled atmosphere")
	// ErrInvalidAltitude is returned for NaN or infinite altitudes.
	ErrInvalidAltitude = errors.New("altitude is not a finite number")
)

// Layer holds the reference constants of one atmospheric layer. Within a
// layer temperature varies linearly with altitude at LapseRate; a zero
// LapseRate marks an isothermal layer.
type Layer struct {
	Name            string
	BaseAltitude    float64 // m
	BaseTemperature float64 // K
	LapseRate       float64 // K/m
	BasePressure    float64 // Pa
	BaseDensity     float64 // kg/m³
}

// layers is ordered by base altitude; classification picks the last layer
// whose base does not exceed the queried altitude.
var layers = [6]Layer{
	{"troposphere", 0, 288.15, -0.0065, 101325.00, 1.225},
	{"tropopause", 11000, 216.65, 0, 22632.06, 0.36391},
	{"stratosphere", 20000, 216.65, 0.001, 5474.89, 0.08803},
	{"stratopause", 32000, 228.65, 0.0028, 868.02, 0.01322},
	{"mesosphere", 47000, 270.65, 0, 110.91, 0.00143},
	{"mesopause", 51000, 270.65, -0.0028, 66.94, 0.00086},
}

// Layers returns a copy of the layer table, ordered by base altitude.
func Layers() []Layer {
	out := make([]Layer, len(layers))
	copy(out, layers[:])
	return out
}

// layerAt classifies an altitude into its containing layer. Altitudes below
// zero extrapolate the troposphere.
func layerAt(altitude float64) (Layer, error) {
	if math.IsNaN(altitude) || math.IsInf(altitude, 0) {
		return Layer{}, fmt.Errorf("%w: %v", ErrInvalidAltitude, altitude)
	}
	if altitude >= MaxAltitude {
		return Layer{}, fmt.Errorf("%w: %g m (model ends at %g m)", ErrAltitudeOutOfRange, altitude, MaxAltitude)
	}
	idx := 0
	for i := 1; i < len(layers); i++ {
		if altitude >= layers[i].BaseAltitude {
			idx = i
		}
	}
	return layers[idx], nil
}

func (l Layer) temperatureAt(altitude float64) float64 {
	return l.BaseTemperature + l.LapseRate*(altitude-l.BaseAltitude)
}

// barometric scales a base quantity (pressure or density) from the layer
// base to the given altitude. The isothermal case is a removable singularity
// of the polytropic form, so the branch on LapseRate is required, not an
// optimization. extra adjusts the polytropic exponent: 0 for pressure, -1
// for density (density scales with one fewer power of the temperature
// ratio).
func (l Layer) barometric(altitude, base, extra float64) float64 {
	dh := altitude - l.BaseAltitude
	if l.LapseRate == 0 {
		return base * math.Exp(-gravity*molarMass*dh/(gasConstant*l.BaseTemperature))
	}
	exponent := -gravity*molarMass/(gasConstant*l.LapseRate) + extra
	return base * math.Pow(l.temperatureAt(altitude)/l.BaseTemperature, exponent)
}

// Temperature returns the standard temperature in Kelvin at a geometric
// altitude in meters.
func Temperature(altitude float64) (float64, error) {
	layer, err := layerAt(altitude)
	if err != nil {
		return 0, err
	}
	return layer.temperatureAt(altitude), nil
}

// Pressure returns the standard pressure in Pascal at a geometric altitude
// in meters.
func Pressure(altitude float64) (float64, error) {
	layer, err := layerAt(altitude)
	if err != nil {
		return 0, err
	}
	return layer.barometric(altitude, layer.BasePressure, 0), nil
}

// Density returns the standard air density in kg/m³ at a geometric altitude
// in meters.
func Density(altitude float64) (float64, error) {
	layer, err := layerAt(altitude)
	if err != nil {
		return 0, err
	}
	return layer.barometric(altitude, layer.BaseDensity, -1), nil
}

// At evaluates all three properties with a single layer lookup.
func At(altitude float64) (Sample, error) {
	layer, err := layerAt(altitude)
	if err != nil {
		return Sample{}, err
	}
	return Sample{
		Altitude:    altitude,
		Temperature: layer.temperatureAt(altitude),
		Pressure:    layer.barometric(altitude, layer.BasePressure, 0),
		Density:     layer.barometric(altitude, layer.BaseDensity, -1),
	}, nil
}
