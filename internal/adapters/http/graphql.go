package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	geofenceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Geofence",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return strconv.FormatInt(p.Source.(domain.Geofence).ID, 10), nil
				},
			},
			"name": &graphql.Field{Type: graphql.String},
			"area": &graphql.Field{
				Type:        graphql.NewList(graphql.NewList(graphql.Float)),
				Description: "Vertices as [latitude, longitude] pairs, ring not closed",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					area := p.Source.(domain.Geofence).Area
					out := make([][]float64, len(area))
					for i, v := range area {
						out[i] = []float64{v[0], v[1]}
					}
					return out, nil
				},
			},
			"bounds": &graphql.Field{Type: boundsType},
			"created_at": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(domain.Geofence).CreatedAt.Format(time.RFC3339), nil
				},
			},
		},
	})

	zoneRefType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ZoneRef",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return strconv.FormatInt(p.Source.(domain.ZoneRef).ID, 10), nil
				},
			},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	membershipType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Membership",
		Fields: graphql.Fields{
			"is_inside": &graphql.Field{Type: graphql.Boolean},
			"zones":     &graphql.Field{Type: graphql.NewList(zoneRefType)},
		},
	})

	incidentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Incident",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"severity":    &graphql.Field{Type: graphql.String},
			"reportedAt":  &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"geofences": &graphql.Field{
				Type:        graphql.NewList(geofenceType),
				Description: "List every geofence with a valid area",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					zones, err := deps.Geofences.List(p.Context)
					return zones, gqlError(err)
				},
			},
			"checkLocation": &graphql.Field{
				Type:        membershipType,
				Description: "Geofences containing a point",
				Args: graphql.FieldConfigArgument{
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					point := domain.GeoPoint{
						Lat: p.Args["latitude"].(float64),
						Lon: p.Args["longitude"].(float64),
					}
					res, err := deps.Geofences.Check(p.Context, point)
					if err != nil {
						return nil, gqlError(err)
					}
					return res, nil
				},
			},
			"incidents": &graphql.Field{
				Type:        graphql.NewList(incidentType),
				Description: "Recent incidents",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Incidents.List(p.Context), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"registerGeofence": &graphql.Field{
				Type:        geofenceType,
				Description: "Register a new geofence",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"area": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.Float))))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := deps.Geofences.Register(p.Context, p.Args["name"].(string), p.Args["area"])
					if err != nil {
						return nil, gqlError(err)
					}
					return *g, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// gqlError keeps validation messages and hides storage details.
func gqlError(err error) error {
	if err == nil {
		return nil
	}
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr
	case errors.Is(err, context.DeadlineExceeded):
		return errors.New("request timed out")
	case errors.Is(err, domain.ErrStorage):
		return errors.New("geofence storage is unavailable")
	default:
		return errors.New("internal error")
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "body must be a JSON object with a query")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
