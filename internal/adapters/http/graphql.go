package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/pkg/geospatial"
)

// formFieldArgs are the optional text fields commitMarker accepts, keyed by
// argument name.
var formFieldArgs = []string{
	"lat_dd", "lon_dd",
	"lat_degrees", "lat_minutes", "lat_seconds",
	"lon_degrees", "lon_minutes", "lon_seconds",
	"lat_direction", "lon_direction",
}

// patchFromArgs builds a form patch from the commitMarker arguments present.
func patchFromArgs(args map[string]interface{}) domain.FormPatch {
	get := func(name string) *string {
		if v, ok := args[name].(string); ok {
			return &v
		}
		return nil
	}
	return domain.FormPatch{
		LatDD:        get("lat_dd"),
		LonDD:        get("lon_dd"),
		LatDegrees:   get("lat_degrees"),
		LatMinutes:   get("lat_minutes"),
		LatSeconds:   get("lat_seconds"),
		LonDegrees:   get("lon_degrees"),
		LonMinutes:   get("lon_minutes"),
		LonSeconds:   get("lon_seconds"),
		LatDirection: get("lat_direction"),
		LonDirection: get("lon_direction"),
	}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
			"label": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					switch pt := p.Source.(type) {
					case domain.GeoPoint:
						return pt.Label(), nil
					case *domain.GeoPoint:
						return pt.Label(), nil
					}
					return nil, nil
				},
			},
		},
	})

	dmsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DMS",
		Fields: graphql.Fields{
			"degrees":   &graphql.Field{Type: graphql.Int},
			"minutes":   &graphql.Field{Type: graphql.Int},
			"seconds":   &graphql.Field{Type: graphql.Float},
			"direction": &graphql.Field{Type: graphql.String},
			"formatted": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if d, ok := p.Source.(geospatial.DMS); ok {
						return d.String(), nil
					}
					return nil, nil
				},
			},
		},
	})

	formFields := graphql.Fields{
		"mode": &graphql.Field{Type: graphql.String},
	}
	for _, name := range formFieldArgs {
		formFields[name] = &graphql.Field{Type: graphql.String}
	}
	formType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Form",
		Fields: formFields,
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"form":               &graphql.Field{Type: formType},
			"modal_open":         &graphql.Field{Type: graphql.Boolean},
			"clicked_coordinate": &graphql.Field{Type: geoPointType},
			"last_committed":     &graphql.Field{Type: geoPointType},
			"markers":            &graphql.Field{Type: graphql.NewList(geoPointType)},
			"created_at":         &graphql.Field{Type: graphql.DateTime},
			"last_active_at":     &graphql.Field{Type: graphql.DateTime},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"index":      &graphql.Field{Type: graphql.Int},
			"point":      &graphql.Field{Type: geoPointType},
			"lat_dms":    &graphql.Field{Type: graphql.String},
			"lon_dms":    &graphql.Field{Type: graphql.String},
			"distance_m": &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"session": &graphql.Field{
				Type:        sessionType,
				Description: "Get a map session by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Sessions.Get(p.Context, p.Args["id"].(string))
				},
			},
			"markers": &graphql.Field{
				Type:        graphql.NewList(markerType),
				Description: "Committed markers of a session in insertion order",
				Args: graphql.FieldConfigArgument{
					"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					entries, _, err := deps.Markers.List(p.Context, p.Args["session"].(string), 0, 0)
					return entries, err
				},
			},
			"toDMS": &graphql.Field{
				Type:        dmsType,
				Description: "Convert signed decimal degrees to DMS",
				Args: graphql.FieldConfigArgument{
					"dd":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"axis": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "lat"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Converter.ToDMS(p.Args["dd"].(float64), p.Args["axis"].(string))
				},
			},
			"toDD": &graphql.Field{
				Type:        graphql.Float,
				Description: "Convert degrees, minutes, seconds and a direction to decimal degrees",
				Args: graphql.FieldConfigArgument{
					"degrees":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"minutes":   &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"seconds":   &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
					"direction": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Converter.ToDD(
						p.Args["degrees"].(float64),
						p.Args["minutes"].(float64),
						p.Args["seconds"].(float64),
						p.Args["direction"].(string),
					)
				},
			},
		},
	})

	commitArgs := graphql.FieldConfigArgument{
		"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"mode":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: string(domain.ModeDD)},
	}
	for _, name := range formFieldArgs {
		commitArgs[name] = &graphql.ArgumentConfig{Type: graphql.String}
	}

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createSession": &graphql.Field{
				Type:        sessionType,
				Description: "Start a new map session",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Sessions.Create(p.Context)
				},
			},
			"commitMarker": &graphql.Field{
				Type:        geoPointType,
				Description: "Fill the session form and submit it as a marker",
				Args:        commitArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["session"].(string)
					mode, err := domain.ParseMode(p.Args["mode"].(string))
					if err != nil {
						return nil, err
					}
					_, err = deps.Sessions.Fill(p.Context, id,
						domain.FormAction{Kind: domain.ActionSetMode, Mode: mode},
						domain.FormAction{Kind: domain.ActionSetFields, Patch: patchFromArgs(p.Args)},
					)
					if err != nil {
						return nil, err
					}
					return deps.Markers.Submit(p.Context, id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
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
			return errBadRequest(c, "invalid request body")
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
