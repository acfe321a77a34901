package atmosphere_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ibarrondo/aeronav/internal/core/atmosphere"
)

func TestCalculate_StandardPressure(t *testing.T) {
	res, err := atmosphere.Calculate(1013.25, atmosphere.HPa, atmosphere.Feet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Correction != 0 {
		t.Errorf("correction = %d ft, want 0", res.Correction)
	}
	if res.PressureAltitude != 0 {
		t.Errorf("pressure altitude = %d ft, want 0", res.PressureAltitude)
	}
	if res.Warning {
		t.Error("unexpected warning at standard pressure")
	}
	if res.Unit != atmosphere.Feet {
		t.Errorf("unit = %q, want ft", res.Unit)
	}
}

func TestCalculate_LowPressure(t *testing.T) {
	res, err := atmosphere.Calculate(1000, atmosphere.HPa, atmosphere.Feet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1000 hPa is ~364 ft below standard.
	if res.Correction > -360 || res.Correction < -370 {
		t.Errorf("correction = %d ft, want ~-364", res.Correction)
	}
	if res.PressureAltitude != -res.Correction {
		t.Errorf("pressure altitude %d is not the negated correction %d",
			res.PressureAltitude, res.Correction)
	}
	if res.Warning {
		t.Error("unexpected warning for 1000 hPa")
	}
}

func TestCalculate_WarningBands(t *testing.T) {
	cases := []struct {
		hPa  float64
		warn bool
	}{
		{900, true},
		{919.99, true},
		{920, false},
		{1060, false},
		{1060.01, true},
		{1099, true},
	}

	for _, c := range cases {
		res, err := atmosphere.Calculate(c.hPa, atmosphere.HPa, atmosphere.Feet)
		if err != nil {
			t.Fatalf("%g hPa: unexpected error: %v", c.hPa, err)
		}
		if res.Warning != c.warn {
			t.Errorf("%g hPa: warning = %v, want %v", c.hPa, res.Warning, c.warn)
		}
	}
}

func TestCalculate_OutOfRange(t *testing.T) {
	for _, p := range []float64{700, 849.99, 1100.01, 2000} {
		_, err := atmosphere.Calculate(p, atmosphere.HPa, atmosphere.Feet)
		if !errors.Is(err, atmosphere.ErrOutOfRange) {
			t.Errorf("%g hPa: expected ErrOutOfRange, got %v", p, err)
		}
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	for _, p := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := atmosphere.Calculate(p, atmosphere.HPa, atmosphere.Feet)
		if !errors.Is(err, atmosphere.ErrInvalidInput) {
			t.Errorf("%v: expected ErrInvalidInput, got %v", p, err)
		}
	}

	if _, err := atmosphere.Calculate(1000, "psi", atmosphere.Feet); !errors.Is(err, atmosphere.ErrInvalidInput) {
		t.Errorf("unknown input unit: expected ErrInvalidInput, got %v", err)
	}
	if _, err := atmosphere.Calculate(1000, atmosphere.HPa, "furlong"); !errors.Is(err, atmosphere.ErrInvalidInput) {
		t.Errorf("unknown output unit: expected ErrInvalidInput, got %v", err)
	}
}

func TestCalculate_InchesOfMercury(t *testing.T) {
	// 29.92 inHg is the standard altimeter setting, ~1013.25 hPa.
	res, err := atmosphere.Calculate(29.92, atmosphere.InHg, atmosphere.FlightLevel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Correction != 0 {
		t.Errorf("correction = %d FL, want 0", res.Correction)
	}
	if res.Warning {
		t.Error("unexpected warning at standard setting")
	}
}

func TestCalculate_OutputUnits(t *testing.T) {
	ft, err := atmosphere.Calculate(1000, atmosphere.HPa, atmosphere.Feet)
	if err != nil {
		t.Fatalf("feet: %v", err)
	}
	fl, err := atmosphere.Calculate(1000, atmosphere.HPa, atmosphere.FlightLevel)
	if err != nil {
		t.Fatalf("FL: %v", err)
	}
	m, err := atmosphere.Calculate(1000, atmosphere.HPa, atmosphere.Meters)
	if err != nil {
		t.Fatalf("meters: %v", err)
	}

	if want := int(math.Round(float64(ft.Correction) / 100)); fl.Correction != want {
		t.Errorf("FL correction = %d, want %d", fl.Correction, want)
	}
	// -364 ft is roughly -111 m.
	if m.Correction > -109 || m.Correction < -113 {
		t.Errorf("meters correction = %d, want ~-111", m.Correction)
	}
}

func TestCalculateWithLimits_CustomBands(t *testing.T) {
	lim := atmosphere.Limits{HardMin: 900, WarnMin: 950, WarnMax: 1050, HardMax: 1080}

	if _, err := atmosphere.CalculateWithLimits(890, atmosphere.HPa, atmosphere.Feet, lim); !errors.Is(err, atmosphere.ErrOutOfRange) {
		t.Errorf("890 hPa with HardMin=900: expected ErrOutOfRange, got %v", err)
	}

	res, err := atmosphere.CalculateWithLimits(940, atmosphere.HPa, atmosphere.Feet, lim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Warning {
		t.Error("940 hPa with WarnMin=950: expected warning")
	}
}
