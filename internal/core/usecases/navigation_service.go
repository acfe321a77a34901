package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/geodesy"
	"github.com/ibarrondo/aeronav/internal/core/ports"
	"github.com/ibarrondo/aeronav/internal/pkg/metrics"
)

// NavigationService solves geodesic problems for the API layer.
type NavigationService struct {
	cache ports.CacheService
}

// NewNavigationService creates a new NavigationService.
func NewNavigationService(cache ports.CacheService) *NavigationService {
	return &NavigationService{cache: cache}
}

// Inverse computes distance and initial bearing between two points.
func (s *NavigationService) Inverse(ctx context.Context, p1, p2 domain.GeoPoint) (*domain.InverseSolution, error) {
	if !p1.Valid() || !p2.Valid() {
		return nil, fmt.Errorf("coordinates out of range: (%g,%g) -> (%g,%g)", p1.Lat, p1.Lon, p2.Lat, p2.Lon)
	}

	// Geodesics don't change; cache on coordinates rounded to ~0.1 m.
	cacheKey := fmt.Sprintf("geo:inv:%.6f:%.6f:%.6f:%.6f", p1.Lat, p1.Lon, p2.Lat, p2.Lon)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var sol domain.InverseSolution
			if err := json.Unmarshal(data, &sol); err == nil {
				metrics.CacheHits.WithLabelValues("inverse").Inc()
				return &sol, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("inverse").Inc()
	}

	res, err := geodesy.Inverse(p1, p2)
	if err != nil {
		metrics.ConvergenceFailures.WithLabelValues("inverse").Inc()
		return nil, err
	}
	metrics.GeodesicSolutions.WithLabelValues("inverse").Inc()

	sol := &domain.InverseSolution{
		From:           p1,
		To:             p2,
		DistanceMeters: res.DistanceMeters,
		DistanceNM:     res.DistanceMeters / domain.MetersPerNauticalMile,
		InitialBearing: res.InitialBearing,
		Coincident:     res.Coincident,
	}

	if s.cache != nil {
		if data, err := json.Marshal(sol); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return sol, nil
}

// Direct projects a destination from a start point, distance, and bearing.
func (s *NavigationService) Direct(ctx context.Context, start domain.GeoPoint, distanceMeters, bearing float64) (*domain.DirectSolution, error) {
	if !start.Valid() {
		return nil, fmt.Errorf("start coordinates out of range: (%g,%g)", start.Lat, start.Lon)
	}
	if distanceMeters < 0 {
		return nil, fmt.Errorf("distance must be >= 0, got %g", distanceMeters)
	}

	res, err := geodesy.Direct(start, distanceMeters, bearing)
	if err != nil {
		metrics.ConvergenceFailures.WithLabelValues("direct").Inc()
		return nil, err
	}
	metrics.GeodesicSolutions.WithLabelValues("direct").Inc()

	return &domain.DirectSolution{
		Start:          start,
		DistanceMeters: distanceMeters,
		Bearing:        bearing,
		Destination:    res.Destination,
	}, nil
}

// Track samples points along the geodesic from start towards bearing,
// inclusive of both endpoints, for client-side map display.
func (s *NavigationService) Track(ctx context.Context, start domain.GeoPoint, distanceMeters, bearing float64, samples int) (*domain.GeoLineString, error) {
	if !start.Valid() {
		return nil, fmt.Errorf("start coordinates out of range: (%g,%g)", start.Lat, start.Lon)
	}
	if distanceMeters < 0 {
		return nil, fmt.Errorf("distance must be >= 0, got %g", distanceMeters)
	}
	if samples < 2 {
		samples = 2
	}
	if samples > 256 {
		samples = 256
	}

	points := make([]domain.GeoPoint, 0, samples)
	for i := 0; i < samples; i++ {
		frac := float64(i) / float64(samples-1)
		res, err := geodesy.Direct(start, distanceMeters*frac, bearing)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		points = append(points, res.Destination)
	}

	return &domain.GeoLineString{Coordinates: points}, nil
}
