// Package geodesy solves the direct and inverse geodesic problems on the
// WGS-84 ellipsoid using Vincenty's iterative formulae (1975).
package geodesy

import (
	"errors"
	"fmt"
	"math"

	"github.com/ibarrondo/aeronav/internal/core/domain"
)

// Ellipsoid holds the defining parameters of a reference ellipsoid.
type Ellipsoid struct {
	A float64 // semi-major axis, meters
	B float64 // semi-minor axis, meters
	F float64 // flattening
}

// WGS84 is the reference ellipsoid used for all computations.
// Initialized once, never mutated.
var WGS84 = Ellipsoid{
	A: 6378137.0,
	B: 6356752.314245,
	F: 1 / 298.257223563,
}

const (
	// convergenceTol is the λ/σ iteration threshold, in radians.
	convergenceTol = 1e-12
	// maxIterations bounds both iterative solvers. Exhausting it is a
	// first-class failure, never an approximate result.
	maxIterations = 100
)

// ErrConvergence is returned when an iterative solver exhausts its iteration
// budget. For the inverse problem this happens for near-antipodal points.
var ErrConvergence = errors.New("geodesy: formula failed to converge")

// InverseResult is the solution of the inverse problem.
type InverseResult struct {
	DistanceMeters float64 // geodesic distance, >= 0
	InitialBearing float64 // forward azimuth at p1, degrees in [0,360)
	Coincident     bool    // both points numerically identical
}

// DirectResult is the solution of the direct problem.
type DirectResult struct {
	Destination domain.GeoPoint
}

// Inverse computes the geodesic distance and initial bearing from p1 to p2.
//
// Coincident points are a normal outcome: the result carries Coincident=true
// with zero distance and bearing. Near-antipodal points make the λ iteration
// diverge and yield ErrConvergence.
func Inverse(p1, p2 domain.GeoPoint) (InverseResult, error) {
	phi1 := toRad(p1.Lat)
	phi2 := toRad(p2.Lat)
	L := toRad(p2.Lon - p1.Lon)

	// Reduced latitudes project both points onto the auxiliary sphere.
	tanU1 := (1 - WGS84.F) * math.Tan(phi1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1
	tanU2 := (1 - WGS84.F) * math.Tan(phi2)
	cosU2 := 1 / math.Sqrt(1+tanU2*tanU2)
	sinU2 := tanU2 * cosU2

	lambda := L
	var sinLambda, cosLambda float64
	var sinSigma, cosSigma, sigma float64
	var cosSqAlpha, cos2SigmaM float64

	for i := 0; ; i++ {
		if i >= maxIterations {
			return InverseResult{}, fmt.Errorf("%w: points are near-antipodal", ErrConvergence)
		}

		sinLambda = math.Sin(lambda)
		cosLambda = math.Cos(lambda)
		sinSigma = math.Sqrt(
			(cosU2*sinLambda)*(cosU2*sinLambda) +
				(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			// Coincident points. Distance and bearing are zero by convention.
			return InverseResult{Coincident: true}, nil
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		if math.IsNaN(cos2SigmaM) {
			cos2SigmaM = 0 // equatorial geodesic: cos²α = 0
		}

		C := WGS84.F / 16 * cosSqAlpha * (4 + WGS84.F*(4-3*cosSqAlpha))
		prev := lambda
		lambda = L + (1-C)*WGS84.F*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) <= convergenceTol {
			break
		}
	}

	uSq := cosSqAlpha * (WGS84.A*WGS84.A - WGS84.B*WGS84.B) / (WGS84.B * WGS84.B)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	distance := WGS84.B * bigA * (sigma - deltaSigma)

	bearing := toDeg(math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda))
	bearing = math.Mod(bearing+360, 360)

	return InverseResult{
		DistanceMeters: distance,
		InitialBearing: bearing,
	}, nil
}

// Direct projects the destination reached by travelling distanceMeters from
// start along the given initial bearing (degrees clockwise from north).
// No reverse bearing is computed.
func Direct(start domain.GeoPoint, distanceMeters, bearingDeg float64) (DirectResult, error) {
	phi1 := toRad(start.Lat)
	alpha1 := toRad(bearingDeg)
	s := distanceMeters

	sinAlpha1 := math.Sin(alpha1)
	cosAlpha1 := math.Cos(alpha1)

	tanU1 := (1 - WGS84.F) * math.Tan(phi1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha

	uSq := cosSqAlpha * (WGS84.A*WGS84.A - WGS84.B*WGS84.B) / (WGS84.B * WGS84.B)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := s / (WGS84.B * bigA)
	var sinSigma, cosSigma, cos2SigmaM float64

	for i := 0; ; i++ {
		if i >= maxIterations {
			return DirectResult{}, fmt.Errorf("%w: direct projection", ErrConvergence)
		}

		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma = math.Sin(sigma)
		cosSigma = math.Cos(sigma)
		deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
			(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
				bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		prev := sigma
		sigma = s/(WGS84.B*bigA) + deltaSigma
		if math.Abs(sigma-prev) <= convergenceTol {
			break
		}
	}

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	lat2 := math.Atan2(
		sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-WGS84.F)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp))

	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	C := WGS84.F / 16 * cosSqAlpha * (4 + WGS84.F*(4-3*cosSqAlpha))
	L := lambda - (1-C)*WGS84.F*sinAlpha*
		(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	lon2 := normalizeLon(start.Lon + toDeg(L))

	return DirectResult{
		Destination: domain.GeoPoint{Lat: toDeg(lat2), Lon: lon2},
	}, nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeLon wraps a longitude into [-180, 180).
func normalizeLon(deg float64) float64 {
	m := math.Mod(deg+540, 360)
	if m < 0 {
		m += 360
	}
	return m - 180
}
