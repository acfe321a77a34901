package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/ibarrondo/aeronav/internal/core/atmosphere"
	"github.com/ibarrondo/aeronav/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	inverseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "InverseSolution",
		Fields: graphql.Fields{
			"from":            &graphql.Field{Type: geoPointType},
			"to":              &graphql.Field{Type: geoPointType},
			"distance_m":      &graphql.Field{Type: graphql.Float},
			"distance_nm":     &graphql.Field{Type: graphql.Float},
			"initial_bearing": &graphql.Field{Type: graphql.Float},
			"coincident":      &graphql.Field{Type: graphql.Boolean},
		},
	})

	directType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DirectSolution",
		Fields: graphql.Fields{
			"start":       &graphql.Field{Type: geoPointType},
			"distance_m":  &graphql.Field{Type: graphql.Float},
			"bearing":     &graphql.Field{Type: graphql.Float},
			"destination": &graphql.Field{Type: geoPointType},
		},
	})

	qnhType := graphql.NewObject(graphql.ObjectConfig{
		Name: "QNHSolution",
		Fields: graphql.Fields{
			"pressure_hpa":      &graphql.Field{Type: graphql.Float},
			"correction":        &graphql.Field{Type: graphql.Int},
			"pressure_altitude": &graphql.Field{Type: graphql.Int},
			"unit":              &graphql.Field{Type: graphql.String},
			"warning":           &graphql.Field{Type: graphql.Boolean},
		},
	})

	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"ident":        &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"kind":         &graphql.Field{Type: graphql.String},
			"country":      &graphql.Field{Type: graphql.String},
			"location":     &graphql.Field{Type: geoPointType},
			"elevation_ft": &graphql.Field{Type: graphql.Int},
			"distance":     &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"inverse": &graphql.Field{
				Type:        inverseType,
				Description: "Distance and initial bearing between two points",
				Args: graphql.FieldConfigArgument{
					"lat1": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon1": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lat2": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon2": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					p1 := domain.GeoPoint{Lat: p.Args["lat1"].(float64), Lon: p.Args["lon1"].(float64)}
					p2 := domain.GeoPoint{Lat: p.Args["lat2"].(float64), Lon: p.Args["lon2"].(float64)}
					return deps.Navigation.Inverse(p.Context, p1, p2)
				},
			},
			"direct": &graphql.Field{
				Type:        directType,
				Description: "Destination point from start, distance, and bearing",
				Args: graphql.FieldConfigArgument{
					"lat":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"distance": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"bearing":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					start := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Navigation.Direct(p.Context, start,
						p.Args["distance"].(float64), p.Args["bearing"].(float64))
				},
			},
			"qnh": &graphql.Field{
				Type:        qnhType,
				Description: "Barometric altitude correction for a QNH reading",
				Args: graphql.FieldConfigArgument{
					"value":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"unit":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "hPa"},
					"output": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "ft"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Altimetry.Calculate(p.Context,
						p.Args["value"].(float64),
						atmosphere.PressureUnit(p.Args["unit"].(string)),
						atmosphere.AltitudeUnit(p.Args["output"].(string)))
				},
			},
			"waypoint": &graphql.Field{
				Type:        waypointType,
				Description: "Get a waypoint by ident",
				Args: graphql.FieldConfigArgument{
					"ident": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Waypoints.GetByIdent(p.Context, p.Args["ident"].(string))
				},
			},
			"waypointsNearby": &graphql.Field{
				Type:        graphql.NewList(waypointType),
				Description: "Find waypoints near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 50000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Waypoints.FindNearby(p.Context,
						p.Args["lat"].(float64), p.Args["lon"].(float64),
						p.Args["radius"].(float64), p.Args["limit"].(int))
				},
			},
			"searchWaypoints": &graphql.Field{
				Type:        graphql.NewList(waypointType),
				Description: "Search waypoints by ident or name (fuzzy matching)",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Waypoints.Search(p.Context,
						p.Args["query"].(string), p.Args["limit"].(int))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
