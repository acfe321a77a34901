// Package atmosphere implements the ICAO Standard Atmosphere barometric
// formula for QNH altitude corrections and pressure altitude.
package atmosphere

import (
	"errors"
	"fmt"
	"math"
)

// PressureUnit tags the unit of a raw pressure reading.
type PressureUnit string

const (
	HPa  PressureUnit = "hPa"
	InHg PressureUnit = "inHg"
)

// AltitudeUnit tags the unit of a computed correction.
type AltitudeUnit string

const (
	FlightLevel AltitudeUnit = "FL"
	Feet        AltitudeUnit = "ft"
	Meters      AltitudeUnit = "m"
)

// ICAO Standard Atmosphere constants.
const (
	StandardPressureHPa = 1013.25
	seaLevelTempK       = 288.15    // T0
	lapseRateKPerM      = 0.0065    // L
	gravity             = 9.80665   // g, m/s²
	gasConstant         = 287.05287 // Rs, J/(kg·K)
	metersPerFoot       = 0.3048
	hPaPerInHg          = 33.86389
)

// Limits holds the pressure sanity bands in hPa. Readings outside
// [HardMin, HardMax] are rejected; readings outside [WarnMin, WarnMax] are
// accepted with a warning. The defaults are policy constants, not derived
// from a physical model.
type Limits struct {
	HardMin float64
	WarnMin float64
	WarnMax float64
	HardMax float64
}

// DefaultLimits are the stock sanity bands.
var DefaultLimits = Limits{HardMin: 850, WarnMin: 920, WarnMax: 1060, HardMax: 1100}

var (
	// ErrInvalidInput is returned for a non-finite or non-positive pressure,
	// or an unknown unit tag.
	ErrInvalidInput = errors.New("atmosphere: invalid pressure input")
	// ErrOutOfRange is returned when the normalized pressure is not a
	// plausible sea-level pressure.
	ErrOutOfRange = errors.New("atmosphere: pressure out of range")
)

// Result is a computed QNH correction.
type Result struct {
	PressureHPa      float64 // input normalized to hPa
	Correction       int     // signed, rounded, in Unit
	PressureAltitude int     // signed, rounded, in Unit
	Unit             AltitudeUnit
	Warning          bool // unusual but not implausible pressure
}

// Calculate computes the barometric altitude correction for a raw pressure
// reading using the default limits.
func Calculate(rawValue float64, in PressureUnit, out AltitudeUnit) (Result, error) {
	return CalculateWithLimits(rawValue, in, out, DefaultLimits)
}

// CalculateWithLimits is Calculate with caller-supplied sanity bands.
func CalculateWithLimits(rawValue float64, in PressureUnit, out AltitudeUnit, lim Limits) (Result, error) {
	if math.IsNaN(rawValue) || math.IsInf(rawValue, 0) || rawValue <= 0 {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, rawValue)
	}

	var hPa float64
	switch in {
	case HPa:
		hPa = rawValue
	case InHg:
		hPa = rawValue * hPaPerInHg
	default:
		return Result{}, fmt.Errorf("%w: unknown pressure unit %q", ErrInvalidInput, in)
	}

	if hPa < lim.HardMin || hPa > lim.HardMax {
		return Result{}, fmt.Errorf("%w: %.2f hPa outside [%.0f, %.0f]",
			ErrOutOfRange, hPa, lim.HardMin, lim.HardMax)
	}
	warning := hPa < lim.WarnMin || hPa > lim.WarnMax

	// ((P/P0)^(Rs·L/g) − 1) · T0/L, converted from meters to feet.
	// Pressure below standard gives a negative correction.
	exponent := gasConstant * lapseRateKPerM / gravity
	correctionFeet := (math.Pow(hPa/StandardPressureHPa, exponent) - 1) *
		(seaLevelTempK / lapseRateKPerM / metersPerFoot)
	pressureAltFeet := -correctionFeet

	res := Result{PressureHPa: hPa, Unit: out, Warning: warning}
	switch out {
	case FlightLevel:
		res.Correction = int(math.Round(correctionFeet / 100))
		res.PressureAltitude = int(math.Round(pressureAltFeet / 100))
	case Feet:
		res.Correction = int(math.Round(correctionFeet))
		res.PressureAltitude = int(math.Round(pressureAltFeet))
	case Meters:
		res.Correction = int(math.Round(correctionFeet * metersPerFoot))
		res.PressureAltitude = int(math.Round(pressureAltFeet * metersPerFoot))
	default:
		return Result{}, fmt.Errorf("%w: unknown altitude unit %q", ErrInvalidInput, out)
	}

	return res, nil
}
