package http

import (
	"errors"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ibarrondo/aeronav/internal/core/atmosphere"
	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/geodesy"
)

// InverseHandler solves the inverse geodesic problem between two points.
// GET /v1/geodesy/inverse?lat1=..&lon1=..&lat2=..&lon2=..
func InverseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat1 := c.QueryFloat("lat1", math.NaN())
		lon1 := c.QueryFloat("lon1", math.NaN())
		lat2 := c.QueryFloat("lat2", math.NaN())
		lon2 := c.QueryFloat("lon2", math.NaN())

		if math.IsNaN(lat1) || math.IsNaN(lon1) || math.IsNaN(lat2) || math.IsNaN(lon2) {
			return errBadRequest(c, "lat1, lon1, lat2 and lon2 are required")
		}

		sol, err := deps.Navigation.Inverse(c.UserContext(),
			domain.GeoPoint{Lat: lat1, Lon: lon1},
			domain.GeoPoint{Lat: lat2, Lon: lon2},
		)
		if err != nil {
			if errors.Is(err, geodesy.ErrConvergence) {
				return errUnprocessable(c, err.Error())
			}
			return errBadRequest(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(sol)
	}
}

// DirectHandler projects a destination point from start, distance, and bearing.
// GET /v1/geodesy/direct?lat=..&lon=..&distance=..&bearing=..
func DirectHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", math.NaN())
		lon := c.QueryFloat("lon", math.NaN())
		distance := c.QueryFloat("distance", math.NaN())
		bearing := c.QueryFloat("bearing", math.NaN())

		if math.IsNaN(lat) || math.IsNaN(lon) || math.IsNaN(distance) || math.IsNaN(bearing) {
			return errBadRequest(c, "lat, lon, distance and bearing are required")
		}

		sol, err := deps.Navigation.Direct(c.UserContext(),
			domain.GeoPoint{Lat: lat, Lon: lon}, distance, bearing)
		if err != nil {
			if errors.Is(err, geodesy.ErrConvergence) {
				return errUnprocessable(c, err.Error())
			}
			return errBadRequest(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(sol)
	}
}

// TrackHandler samples a geodesic track for map display.
// GET /v1/geodesy/track?lat=..&lon=..&distance=..&bearing=..&samples=32
func TrackHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", math.NaN())
		lon := c.QueryFloat("lon", math.NaN())
		distance := c.QueryFloat("distance", math.NaN())
		bearing := c.QueryFloat("bearing", math.NaN())
		samples := c.QueryInt("samples", 32)

		if math.IsNaN(lat) || math.IsNaN(lon) || math.IsNaN(distance) || math.IsNaN(bearing) {
			return errBadRequest(c, "lat, lon, distance and bearing are required")
		}

		track, err := deps.Navigation.Track(c.UserContext(),
			domain.GeoPoint{Lat: lat, Lon: lon}, distance, bearing, samples)
		if err != nil {
			if errors.Is(err, geodesy.ErrConvergence) {
				return errUnprocessable(c, err.Error())
			}
			return errBadRequest(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(track)
	}
}

// QNHHandler computes the barometric altitude correction for a QNH reading.
// GET /v1/altimetry/qnh?value=1013.25&unit=hPa&output=ft
func QNHHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value := c.QueryFloat("value", math.NaN())
		if math.IsNaN(value) {
			return errBadRequest(c, "value is required")
		}

		unit := atmosphere.PressureUnit(c.Query("unit", string(atmosphere.HPa)))
		output := atmosphere.AltitudeUnit(c.Query("output", string(atmosphere.Feet)))

		sol, err := deps.Altimetry.Calculate(c.UserContext(), value, unit, output)
		if err != nil {
			if errors.Is(err, atmosphere.ErrOutOfRange) {
				return errUnprocessable(c, err.Error())
			}
			return errBadRequest(c, err.Error())
		}

		return c.JSON(sol)
	}
}

// NearbyWaypointsHandler returns waypoints within a radius of a point.
// GET /v1/waypoints/nearby?lat=..&lon=..&radius=50000&limit=50
func NearbyWaypointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", math.NaN())
		lon := c.QueryFloat("lon", math.NaN())
		radius := c.QueryFloat("radius", 50000)
		limit := c.QueryInt("limit", 50)

		if math.IsNaN(lat) || math.IsNaN(lon) {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 500000 {
			return errBadRequest(c, "radius must be between 1 and 500000 meters")
		}

		wps, err := deps.Waypoints.FindNearby(c.UserContext(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(wps)
	}
}

// SearchWaypointsHandler performs fuzzy search on waypoint idents and names.
// GET /v1/waypoints/search?q=bilbao&limit=20
func SearchWaypointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 20)

		wps, err := deps.Waypoints.Search(c.UserContext(), query, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(wps)
	}
}

// BatchWaypointsHandler returns multiple waypoints by ident.
// GET /v1/waypoints/batch?idents=LEBB,LEMD,EGLL
func BatchWaypointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("idents", "")
		if raw == "" {
			return errBadRequest(c, "idents query parameter is required (comma-separated)")
		}

		var idents []string
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				idents = append(idents, trimmed)
			}
		}
		if len(idents) == 0 {
			return errBadRequest(c, "at least one ident is required")
		}
		if len(idents) > 100 {
			return errBadRequest(c, "maximum 100 idents allowed")
		}

		wps, err := deps.Waypoints.GetByIdents(c.UserContext(), idents)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(wps)
	}
}

// GetWaypointHandler returns a single waypoint by ident.
func GetWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident := c.Params("ident")
		if ident == "" {
			return errBadRequest(c, "waypoint ident is required")
		}
		wp, err := deps.Waypoints.GetByIdent(c.UserContext(), ident)
		if err != nil {
			return errNotFound(c, "waypoint not found")
		}
		return c.JSON(wp)
	}
}

// upsertWaypointRequest is the body for creating or updating a waypoint.
type upsertWaypointRequest struct {
	Ident       string          `json:"ident"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	Country     string          `json:"country"`
	Location    domain.GeoPoint `json:"location"`
	ElevationFt *int            `json:"elevation_ft"`
}

// UpsertWaypointHandler creates or updates a waypoint.
// PUT /v1/waypoints
func UpsertWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req upsertWaypointRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		req.Ident = strings.ToUpper(strings.TrimSpace(req.Ident))
		if req.Ident == "" {
			return errBadRequest(c, "ident is required")
		}
		if !req.Location.Valid() {
			return errBadRequest(c, "location out of range")
		}
		switch req.Kind {
		case "airport", "navaid", "fix":
		default:
			return errBadRequest(c, "kind must be airport, navaid, or fix")
		}

		wp := domain.Waypoint{
			Ident:       req.Ident,
			Name:        req.Name,
			Kind:        req.Kind,
			Country:     req.Country,
			Location:    req.Location,
			ElevationFt: req.ElevationFt,
		}
		if err := deps.Waypoints.Upsert(c.UserContext(), &wp); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(wp)
	}
}

// LegHandler computes the geodesic leg between two stored waypoints.
// GET /v1/legs?from=LEBB&to=LEMD
func LegHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			return errBadRequest(c, "from and to idents are required")
		}

		leg, err := deps.Plans.Leg(c.UserContext(), from, to)
		if err != nil {
			if errors.Is(err, geodesy.ErrConvergence) {
				return errUnprocessable(c, err.Error())
			}
			return errNotFound(c, err.Error())
		}
		return c.JSON(leg)
	}
}

// buildNavLogRequest is the body for computing a navigation log.
type buildNavLogRequest struct {
	Name  string   `json:"name"`
	Route []string `json:"route"`
}

// BuildNavLogHandler resolves a route, computes all legs, and stores the log.
// With ?async=true the request is queued for the plan worker instead and a
// 202 is returned; the finished plan is announced on nav.plan.ready.
// POST /v1/navlogs
func BuildNavLogHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req buildNavLogRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if req.Name == "" {
			return errBadRequest(c, "name is required")
		}

		if c.QueryBool("async", false) {
			if deps.Events == nil {
				return errInternal(c, "event broker not available")
			}
			reqID, _ := c.Locals("requestid").(string)
			pr := &domain.PlanRequest{RequestID: reqID, Name: req.Name, Idents: req.Route}
			if err := deps.Events.PublishPlanRequest(c.UserContext(), pr); err != nil {
				return errInternal(c, err.Error())
			}
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status":     "queued",
				"request_id": reqID,
			})
		}

		nl, err := deps.Plans.BuildNavLog(c.UserContext(), req.Name, req.Route)
		if err != nil {
			if errors.Is(err, geodesy.ErrConvergence) {
				return errUnprocessable(c, err.Error())
			}
			return errBadRequest(c, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(nl)
	}
}

// ListNavLogsHandler returns recent navigation logs, paginated.
func ListNavLogsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logs, err := deps.Plans.ListNavLogs(c.UserContext(), 100)
		if err != nil {
			return errInternal(c, err.Error())
		}

		// Apply offset/limit pagination on the full list
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		total := len(logs)
		if offset >= total {
			logs = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			logs = logs[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: logs, Pagination: pg})
	}
}

// GetNavLogHandler returns a stored navigation log by ID.
func GetNavLogHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "navlog id is required")
		}
		nl, err := deps.Plans.GetNavLog(c.UserContext(), id)
		if err != nil {
			return errNotFound(c, "navlog not found")
		}
		return c.JSON(nl)
	}
}

// DeleteNavLogHandler removes a stored navigation log.
func DeleteNavLogHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "navlog id is required")
		}
		if err := deps.Plans.DeleteNavLog(c.UserContext(), id); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DistanceHandler is the legacy distance endpoint, kept as a deprecated alias
// of the inverse endpoint.
// GET /v1/distance?lat1=..&lon1=..&lat2=..&lon2=..
func DistanceHandler(deps *Dependencies) fiber.Handler {
	inverse := InverseHandler(deps)
	return func(c *fiber.Ctx) error {
		return inverse(c)
	}
}
