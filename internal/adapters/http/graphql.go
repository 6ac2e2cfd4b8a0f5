package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services. Field names
// follow the JSON tags so the default resolver can read domain structs.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"name":              &graphql.Field{Type: graphql.String},
			"formatted_address": &graphql.Field{Type: graphql.String},
			"lat":               &graphql.Field{Type: graphql.Float},
			"lon":               &graphql.Field{Type: graphql.Float},
		},
	})

	stopType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stop",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{Type: graphql.String},
			"lat":  &graphql.Field{Type: graphql.Float},
			"lon":  &graphql.Field{Type: graphql.Float},
			"type": &graphql.Field{Type: graphql.String},
		},
	})

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "OptimizationResult",
		Fields: graphql.Fields{
			"order":           &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"strategy":        &graphql.Field{Type: graphql.String},
			"used_fallback":   &graphql.Field{Type: graphql.Boolean},
			"fallback_reason": &graphql.Field{Type: graphql.String},
			"raw_response":    &graphql.Field{Type: graphql.String},
		},
	})

	recordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteOptimization",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"route_name":         &graphql.Field{Type: graphql.String},
			"status":             &graphql.Field{Type: graphql.String},
			"optimization_type":  &graphql.Field{Type: graphql.String},
			"stops":              &graphql.Field{Type: graphql.NewList(stopType)},
			"original_order":     &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"optimized_order":    &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"distance_before_km": &graphql.Field{Type: graphql.Float},
			"distance_after_km":  &graphql.Field{Type: graphql.Float},
			"distance_saved_km":  &graphql.Field{Type: graphql.Float},
			"fuel_saved_liters":  &graphql.Field{Type: graphql.Float},
			"fuel_savings":       &graphql.Field{Type: graphql.Float},
			"processing_ms":      &graphql.Field{Type: graphql.Int},
			"created_at":         &graphql.Field{Type: graphql.DateTime},
		},
	})

	recordPageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteOptimizationPage",
		Fields: graphql.Fields{
			"items": &graphql.Field{Type: graphql.NewList(recordType)},
			"total": &graphql.Field{Type: graphql.Int},
		},
	})

	stopInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "StopInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
			"name": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"lat":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"searchPlaces": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Geocode a free-text place query",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Routes.SearchPlaces(p.Context, q, limit), nil
				},
			},
			"optimization": &graphql.Field{
				Type:        recordType,
				Description: "Get a saved route optimization by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rec, err := deps.Optimizations.Get(p.Context, p.Args["id"].(string))
					if errors.Is(err, domain.ErrNotFound) {
						return nil, nil
					}
					return rec, err
				},
			},
			"optimizations": &graphql.Field{
				Type:        recordPageType,
				Description: "List saved route optimizations, newest first",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, total, err := deps.Optimizations.List(p.Context, p.Args["offset"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{"items": items, "total": total}, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"optimizeStops": &graphql.Field{
				Type:        resultType,
				Description: "Order stops to minimize driving distance",
				Args: graphql.FieldConfigArgument{
					"stops": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(stopInput)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Optimizer.OptimizeStopOrder(p.Context, stopsFromArgs(p.Args["stops"]))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func stopsFromArgs(arg interface{}) []domain.Stop {
	list, _ := arg.([]interface{})
	stops := make([]domain.Stop, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		var s domain.Stop
		s.ID, _ = m["id"].(int)
		s.Name, _ = m["name"].(string)
		s.Lat, _ = m["lat"].(float64)
		s.Lon, _ = m["lon"].(float64)
		stops = append(stops, s)
	}
	return stops
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// Programming error in the schema definition.
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
