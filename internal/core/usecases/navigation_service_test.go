package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/geodesy"
	"github.com/ibarrondo/aeronav/internal/core/usecases"
)

func TestNavigationService_Inverse(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	sol, err := svc.Inverse(context.Background(),
		domain.GeoPoint{Lat: 43.301, Lon: -2.911},
		domain.GeoPoint{Lat: 40.472, Lon: -3.561},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.DistanceMeters < 300000 || sol.DistanceMeters > 330000 {
		t.Errorf("unexpected distance: %f m", sol.DistanceMeters)
	}
	if math.Abs(sol.DistanceNM-sol.DistanceMeters/domain.MetersPerNauticalMile) > 1e-9 {
		t.Errorf("distance_nm inconsistent")
	}
}

func TestNavigationService_Inverse_InvalidCoords(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	_, err := svc.Inverse(context.Background(),
		domain.GeoPoint{Lat: 91, Lon: 0},
		domain.GeoPoint{Lat: 0, Lon: 0},
	)
	if err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}

func TestNavigationService_Inverse_Antipodal(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	_, err := svc.Inverse(context.Background(),
		domain.GeoPoint{Lat: 0, Lon: 0},
		domain.GeoPoint{Lat: 0, Lon: 180},
	)
	if !errors.Is(err, geodesy.ErrConvergence) {
		t.Fatalf("expected ErrConvergence, got %v", err)
	}
}

func TestNavigationService_Direct(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	sol, err := svc.Direct(context.Background(), domain.GeoPoint{Lat: 0, Lon: 0}, 110574, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(sol.Destination.Lat-1.0) > 0.01 {
		t.Errorf("expected destination near lat 1, got %f", sol.Destination.Lat)
	}
}

func TestNavigationService_Direct_NegativeDistance(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	_, err := svc.Direct(context.Background(), domain.GeoPoint{Lat: 0, Lon: 0}, -1, 0)
	if err == nil {
		t.Fatal("expected error for negative distance")
	}
}

func TestNavigationService_Track(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	track, err := svc.Track(context.Background(), domain.GeoPoint{Lat: 43.3, Lon: -2.9}, 300000, 200, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(track.Coordinates) != 10 {
		t.Fatalf("expected 10 points, got %d", len(track.Coordinates))
	}
	if math.Abs(track.Coordinates[0].Lat-43.3) > 1e-9 || math.Abs(track.Coordinates[0].Lon+2.9) > 1e-9 {
		t.Errorf("track must start at origin, got %+v", track.Coordinates[0])
	}
	// Heading roughly south-southwest; latitude decreases monotonically.
	for i := 1; i < len(track.Coordinates); i++ {
		if track.Coordinates[i].Lat >= track.Coordinates[i-1].Lat {
			t.Errorf("point %d: latitude should decrease along the track", i)
		}
	}
}

func TestNavigationService_Track_ClampsSamples(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	track, err := svc.Track(context.Background(), domain.GeoPoint{Lat: 0, Lon: 0}, 1000, 90, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(track.Coordinates) != 2 {
		t.Errorf("expected minimum of 2 samples, got %d", len(track.Coordinates))
	}

	track, err = svc.Track(context.Background(), domain.GeoPoint{Lat: 0, Lon: 0}, 1000, 90, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(track.Coordinates) != 256 {
		t.Errorf("expected samples clamped to 256, got %d", len(track.Coordinates))
	}
}
