package domain

// GeoPoint represents a geographic coordinate (WGS 84), in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies inside the WGS 84 domain.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// GeoLineString represents an ordered sequence of geographic coordinates.
type GeoLineString struct {
	Coordinates []GeoPoint `json:"coordinates"`
}

// MetersPerNauticalMile converts canonical meter distances to the
// nautical miles shown alongside them in API responses.
const MetersPerNauticalMile = 1852.0

// InverseSolution is the solved inverse geodesic problem between two points.
type InverseSolution struct {
	From           GeoPoint `json:"from"`
	To             GeoPoint `json:"to"`
	DistanceMeters float64  `json:"distance_m"`
	DistanceNM     float64  `json:"distance_nm"`
	InitialBearing float64  `json:"initial_bearing"`
	Coincident     bool     `json:"coincident"`
}

// DirectSolution is the solved direct geodesic problem.
type DirectSolution struct {
	Start          GeoPoint `json:"start"`
	DistanceMeters float64  `json:"distance_m"`
	Bearing        float64  `json:"bearing"`
	Destination    GeoPoint `json:"destination"`
}

// QNHSolution is a computed barometric altitude correction.
type QNHSolution struct {
	PressureHPa      float64 `json:"pressure_hpa"`
	Correction       int     `json:"correction"`
	PressureAltitude int     `json:"pressure_altitude"`
	Unit             string  `json:"unit"`
	Warning          bool    `json:"warning"`
}
