package usecases

import (
	"context"
	"errors"

	"github.com/ibarrondo/aeronav/internal/core/atmosphere"
	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/pkg/metrics"
)

// AltimetryService computes QNH altitude corrections.
type AltimetryService struct {
	limits atmosphere.Limits
}

// NewAltimetryService creates an AltimetryService with the given pressure
// sanity bands (use atmosphere.DefaultLimits for the stock policy).
func NewAltimetryService(limits atmosphere.Limits) *AltimetryService {
	return &AltimetryService{limits: limits}
}

// Calculate computes the barometric correction for a raw pressure reading.
func (s *AltimetryService) Calculate(ctx context.Context, rawValue float64, in atmosphere.PressureUnit, out atmosphere.AltitudeUnit) (*domain.QNHSolution, error) {
	res, err := atmosphere.CalculateWithLimits(rawValue, in, out, s.limits)
	if err != nil {
		switch {
		case errors.Is(err, atmosphere.ErrOutOfRange):
			metrics.AltimetryRejections.WithLabelValues("out_of_range").Inc()
		case errors.Is(err, atmosphere.ErrInvalidInput):
			metrics.AltimetryRejections.WithLabelValues("invalid_input").Inc()
		}
		return nil, err
	}

	metrics.AltimetrySolutions.Inc()
	if res.Warning {
		metrics.AltimetryWarnings.Inc()
	}

	return &domain.QNHSolution{
		PressureHPa:      res.PressureHPa,
		Correction:       res.Correction,
		PressureAltitude: res.PressureAltitude,
		Unit:             string(res.Unit),
		Warning:          res.Warning,
	}, nil
}
