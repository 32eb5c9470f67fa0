package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/trailhub/internal/core/domain"
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

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	trackerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tracker",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"tracker_id": &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"kind":       &graphql.Field{Type: graphql.String},
			"owner":      &graphql.Field{Type: graphql.String},
			"active":     &graphql.Field{Type: graphql.Boolean},
			"location":   &graphql.Field{Type: geoPointType},
			"distance":   &graphql.Field{Type: graphql.Float},
		},
	})

	trailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trail",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"trail_id":   &graphql.Field{Type: graphql.String},
			"tracker_id": &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"started_at": &graphql.Field{Type: graphql.String},
			"ended_at":   &graphql.Field{Type: graphql.String},
			"bounds":     &graphql.Field{Type: boundsType},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Region",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"slug":   &graphql.Field{Type: graphql.String},
			"name":   &graphql.Field{Type: graphql.String},
			"bounds": &graphql.Field{Type: boundsType},
			"active": &graphql.Field{Type: graphql.Boolean},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TrailStats",
		Fields: graphql.Fields{
			"trail_id":      &graphql.Field{Type: graphql.String},
			"fix_count":     &graphql.Field{Type: graphql.Int},
			"length_meters": &graphql.Field{Type: graphql.Float},
			"avg_speed":     &graphql.Field{Type: graphql.Float},
			"bounds":        &graphql.Field{Type: boundsType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"trackers": &graphql.Field{
				Type:        graphql.NewList(trackerType),
				Description: "List all registered trackers",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Trackers.List(p.Context)
				},
			},
			"trackersNearby": &graphql.Field{
				Type:        graphql.NewList(trackerType),
				Description: "Find trackers near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Trackers.FindNearby(p.Context, lat, lon, radius, limit)
				},
			},
			"tracker": &graphql.Field{
				Type:        trackerType,
				Description: "Get a tracker by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Trackers.GetByID(p.Context, id)
				},
			},
			"trail": &graphql.Field{
				Type:        trailType,
				Description: "Get a trail by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Trails.GetByID(p.Context, id)
				},
			},
			"trailsByTracker": &graphql.Field{
				Type:        graphql.NewList(trailType),
				Description: "List trails recorded by a tracker",
				Args: graphql.FieldConfigArgument{
					"tracker_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					trackerID := p.Args["tracker_id"].(string)
					return deps.Trails.ListByTracker(p.Context, trackerID)
				},
			},
			"trailBounds": &graphql.Field{
				Type:        boundsType,
				Description: "Bounding box of a trail, null when the trail has no fixes",
				Args: graphql.FieldConfigArgument{
					"trail_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					trailID := p.Args["trail_id"].(string)
					bounds, err := deps.Trails.Bounds(p.Context, trailID)
					if err != nil {
						return nil, err
					}
					if bounds == nil {
						return nil, nil
					}
					return bounds, nil
				},
			},
			"trailStats": &graphql.Field{
				Type:        statsType,
				Description: "Computed summary of a trail",
				Args: graphql.FieldConfigArgument{
					"trail_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					trailID := p.Args["trail_id"].(string)
					return deps.Trails.Stats(p.Context, trailID)
				},
			},
			"regions": &graphql.Field{
				Type:        graphql.NewList(regionType),
				Description: "List all geofence regions",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Regions.List(p.Context)
				},
			},
			"region": &graphql.Field{
				Type:        regionType,
				Description: "Get a region by slug",
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					slug := p.Args["slug"].(string)
					return deps.Regions.GetBySlug(p.Context, slug)
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

// Ensure domain types implement field resolvers for graphql-go via struct tags
var _ = domain.Tracker{}
var _ = domain.Trail{}
var _ = domain.Region{}
