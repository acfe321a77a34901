package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ibarrondo/aeronav/internal/core/atmosphere"
	"github.com/ibarrondo/aeronav/internal/core/usecases"
)

func TestAltimetryService_StandardPressure(t *testing.T) {
	svc := usecases.NewAltimetryService(atmosphere.DefaultLimits)

	sol, err := svc.Calculate(context.Background(), 1013.25, atmosphere.HPa, atmosphere.Feet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Correction != 0 {
		t.Errorf("expected zero correction, got %d", sol.Correction)
	}
	if sol.Warning {
		t.Error("unexpected warning at standard pressure")
	}
	if sol.Unit != "ft" {
		t.Errorf("expected unit ft, got %s", sol.Unit)
	}
}

func TestAltimetryService_OutOfRange(t *testing.T) {
	svc := usecases.NewAltimetryService(atmosphere.DefaultLimits)

	for _, v := range []float64{849.9, 1100.1} {
		_, err := svc.Calculate(context.Background(), v, atmosphere.HPa, atmosphere.Feet)
		if !errors.Is(err, atmosphere.ErrOutOfRange) {
			t.Errorf("value %f: expected ErrOutOfRange, got %v", v, err)
		}
	}
}

func TestAltimetryService_InvalidInput(t *testing.T) {
	svc := usecases.NewAltimetryService(atmosphere.DefaultLimits)

	_, err := svc.Calculate(context.Background(), 1013, "psi", atmosphere.Feet)
	if !errors.Is(err, atmosphere.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown unit, got %v", err)
	}

	_, err = svc.Calculate(context.Background(), -5, atmosphere.HPa, atmosphere.Feet)
	if !errors.Is(err, atmosphere.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative pressure, got %v", err)
	}
}

func TestAltimetryService_WarnBand(t *testing.T) {
	svc := usecases.NewAltimetryService(atmosphere.DefaultLimits)

	sol, err := svc.Calculate(context.Background(), 900, atmosphere.HPa, atmosphere.Feet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sol.Warning {
		t.Error("expected warning for 900 hPa")
	}
	if sol.Correction >= 0 {
		t.Errorf("expected negative correction below standard, got %d", sol.Correction)
	}
	if sol.PressureAltitude != -sol.Correction {
		t.Errorf("pressure altitude should mirror correction: %d vs %d", sol.PressureAltitude, sol.Correction)
	}
}

func TestAltimetryService_CustomLimits(t *testing.T) {
	lim := atmosphere.Limits{HardMin: 950, WarnMin: 980, WarnMax: 1040, HardMax: 1060}
	svc := usecases.NewAltimetryService(lim)

	if _, err := svc.Calculate(context.Background(), 900, atmosphere.HPa, atmosphere.Feet); !errors.Is(err, atmosphere.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange under tightened limits, got %v", err)
	}

	sol, err := svc.Calculate(context.Background(), 970, atmosphere.HPa, atmosphere.Feet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sol.Warning {
		t.Error("expected warning at 970 hPa under tightened limits")
	}
}
