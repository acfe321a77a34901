package geodesy_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/geodesy"
)

func TestInverse_CoincidentPoints(t *testing.T) {
	points := []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 43.263, Lon: -2.935},
		{Lat: -89.9, Lon: 179.5},
	}

	for _, p := range points {
		res, err := geodesy.Inverse(p, p)
		if err != nil {
			t.Fatalf("unexpected error for %+v: %v", p, err)
		}
		if !res.Coincident {
			t.Errorf("expected Coincident=true for %+v", p)
		}
		if res.DistanceMeters != 0 || res.InitialBearing != 0 {
			t.Errorf("expected zero distance and bearing, got %f m / %f deg",
				res.DistanceMeters, res.InitialBearing)
		}
	}
}

func TestInverse_LondonToParis(t *testing.T) {
	london := domain.GeoPoint{Lat: 51.5074, Lon: -0.1278}
	paris := domain.GeoPoint{Lat: 48.8566, Lon: 2.3522}

	res, err := geodesy.Inverse(london, paris)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Coincident {
		t.Fatal("unexpected coincident result")
	}
	// Ellipsoidal distance; the spherical great-circle figure for this pair
	// is ~367 m shorter.
	if math.Abs(res.DistanceMeters-343923) > 100 {
		t.Errorf("distance = %.1f m, want 343923 ± 100", res.DistanceMeters)
	}
	if math.Abs(res.InitialBearing-148.12) > 0.5 {
		t.Errorf("bearing = %.3f deg, want ~148.12", res.InitialBearing)
	}
}

// Vincenty's published test line: Flinders Peak to Buninyong (Australia).
func TestInverse_FlindersPeakToBuninyong(t *testing.T) {
	flinders := domain.GeoPoint{Lat: -37.95103342, Lon: 144.42486789}
	buninyong := domain.GeoPoint{Lat: -37.65282114, Lon: 143.92649553}

	res, err := geodesy.Inverse(flinders, buninyong)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.DistanceMeters-54972.271) > 0.01 {
		t.Errorf("distance = %.4f m, want 54972.271 ± 0.01", res.DistanceMeters)
	}
	if math.Abs(res.InitialBearing-306.86816) > 0.001 {
		t.Errorf("bearing = %.5f deg, want ~306.86816", res.InitialBearing)
	}
}

func TestInverse_Symmetry(t *testing.T) {
	cases := [][2]domain.GeoPoint{
		{{Lat: 51.5074, Lon: -0.1278}, {Lat: 48.8566, Lon: 2.3522}},
		{{Lat: -33.8688, Lon: 151.2093}, {Lat: 35.6762, Lon: 139.6503}},
		{{Lat: 64.1466, Lon: -21.9426}, {Lat: -34.6037, Lon: -58.3816}},
	}

	for _, c := range cases {
		fwd, err := geodesy.Inverse(c[0], c[1])
		if err != nil {
			t.Fatalf("forward failed: %v", err)
		}
		rev, err := geodesy.Inverse(c[1], c[0])
		if err != nil {
			t.Fatalf("reverse failed: %v", err)
		}
		if math.Abs(fwd.DistanceMeters-rev.DistanceMeters) > 1e-6 {
			t.Errorf("asymmetric distance: %.9f vs %.9f", fwd.DistanceMeters, rev.DistanceMeters)
		}
	}
}

func TestInverse_Antipodal(t *testing.T) {
	_, err := geodesy.Inverse(
		domain.GeoPoint{Lat: 0, Lon: 0},
		domain.GeoPoint{Lat: 0, Lon: 180},
	)
	if !errors.Is(err, geodesy.ErrConvergence) {
		t.Fatalf("expected ErrConvergence, got %v", err)
	}
}

func TestInverse_BearingRange(t *testing.T) {
	// A point due west: atan2 yields a negative angle that must be
	// normalized into [0, 360).
	res, err := geodesy.Inverse(
		domain.GeoPoint{Lat: 10, Lon: 10},
		domain.GeoPoint{Lat: 10, Lon: 5},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InitialBearing < 0 || res.InitialBearing >= 360 {
		t.Errorf("bearing %.4f out of [0,360)", res.InitialBearing)
	}
	if math.Abs(res.InitialBearing-270.43) > 1 {
		t.Errorf("bearing = %.2f, want roughly west (~270)", res.InitialBearing)
	}
}

func TestDirect_ZeroDistance(t *testing.T) {
	start := domain.GeoPoint{Lat: 47.3769, Lon: 8.5417}
	res, err := geodesy.Direct(start, 0, 135)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Destination.Lat-start.Lat) > 1e-12 ||
		math.Abs(res.Destination.Lon-start.Lon) > 1e-12 {
		t.Errorf("zero-distance projection moved the point: %+v", res.Destination)
	}
}

func TestDirect_FlindersPeakLine(t *testing.T) {
	flinders := domain.GeoPoint{Lat: -37.95103342, Lon: 144.42486789}

	res, err := geodesy.Direct(flinders, 54972.271, 306.86816)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Destination.Lat-(-37.65282114)) > 1e-6 {
		t.Errorf("lat = %.8f, want -37.65282114", res.Destination.Lat)
	}
	if math.Abs(res.Destination.Lon-143.92649553) > 1e-6 {
		t.Errorf("lon = %.8f, want 143.92649553", res.Destination.Lon)
	}
}

func TestDirect_LongitudeWrap(t *testing.T) {
	// Heading east across the antimeridian.
	start := domain.GeoPoint{Lat: 0, Lon: 179.5}
	res, err := geodesy.Direct(start, 200000, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Destination.Lon < -180 || res.Destination.Lon >= 180 {
		t.Errorf("longitude %.4f out of [-180,180)", res.Destination.Lon)
	}
	if res.Destination.Lon > 0 {
		t.Errorf("expected destination west of the antimeridian, got lon %.4f", res.Destination.Lon)
	}
}

func TestRoundTrip_DirectThenInverse(t *testing.T) {
	starts := []domain.GeoPoint{
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 0.5, Lon: 0.5},
		{Lat: 60.17, Lon: 24.94},
	}
	distances := []float64{1000, 50000, 1.5e6, 8e6}
	bearings := []float64{0, 45, 137.25, 270, 359.9}

	for _, p := range starts {
		for _, d := range distances {
			for _, b := range bearings {
				dst, err := geodesy.Direct(p, d, b)
				if err != nil {
					t.Fatalf("direct(%+v, %g, %g): %v", p, d, b, err)
				}
				inv, err := geodesy.Inverse(p, dst.Destination)
				if err != nil {
					t.Fatalf("inverse after direct(%+v, %g, %g): %v", p, d, b, err)
				}
				if relErr := math.Abs(inv.DistanceMeters-d) / d; relErr > 1e-6 {
					t.Errorf("direct(%+v, %g, %g): round-trip distance %.6f (rel err %g)",
						p, d, b, inv.DistanceMeters, relErr)
				}
				want := math.Mod(b+360, 360)
				diff := math.Abs(inv.InitialBearing - want)
				if diff > 180 {
					diff = 360 - diff
				}
				if diff > 1e-4 {
					t.Errorf("direct(%+v, %g, %g): round-trip bearing %.6f, want %.6f",
						p, d, b, inv.InitialBearing, want)
				}
			}
		}
	}
}

func TestInverse_EquatorialLine(t *testing.T) {
	// Both points on the equator exercise the cos(2σm) substitution.
	res, err := geodesy.Inverse(
		domain.GeoPoint{Lat: 0, Lon: 0},
		domain.GeoPoint{Lat: 0, Lon: 10},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One degree of equatorial arc is ~111.32 km.
	if math.Abs(res.DistanceMeters-1113195) > 1000 {
		t.Errorf("distance = %.1f m, want ~1113195", res.DistanceMeters)
	}
	if math.Abs(res.InitialBearing-90) > 1e-9 {
		t.Errorf("bearing = %.9f, want 90", res.InitialBearing)
	}
}
