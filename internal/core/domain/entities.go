package domain

import (
	"time"
)

// Waypoint is a named fix: an airport, navaid, or published intersection.
type Waypoint struct {
	ID          string    `json:"id"`
	Ident       string    `json:"ident"` // ICAO code or fix name
	Name        string    `json:"name"`
	Kind        string    `json:"kind"` // airport | navaid | fix
	Country     string    `json:"country,omitempty"`
	Location    GeoPoint  `json:"location"`
	ElevationFt *int      `json:"elevation_ft,omitempty"`
	Distance    *float64  `json:"distance,omitempty"` // computed field, meters
	CreatedAt   time.Time `json:"created_at"`
}

// NavLogLeg is one computed segment of a navigation log.
type NavLogLeg struct {
	Seq            int      `json:"seq"`
	FromIdent      string   `json:"from_ident"`
	ToIdent        string   `json:"to_ident"`
	From           GeoPoint `json:"from"`
	To             GeoPoint `json:"to"`
	DistanceMeters float64  `json:"distance_m"`
	DistanceNM     float64  `json:"distance_nm"`
	InitialBearing float64  `json:"initial_bearing"`
}

// NavLog is a computed multi-leg navigation log over stored waypoints.
type NavLog struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Legs           []NavLogLeg `json:"legs"`
	TotalMeters    float64     `json:"total_m"`
	TotalNM        float64     `json:"total_nm"`
	CreatedAt      time.Time   `json:"created_at"`
}

// PlanRequest asks the plan worker to build a navigation log asynchronously.
type PlanRequest struct {
	RequestID string   `json:"request_id"`
	Name      string   `json:"name"`
	Idents    []string `json:"idents"`
}
