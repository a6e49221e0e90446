package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services. Object
// fields resolve from the domain structs' json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ListingLocation",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"region":    &graphql.Field{Type: graphql.String},
		},
	})

	listingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Listing",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"seller_id":   &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Int},
			"category":    &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: locationType},
			"image_urls":  &graphql.Field{Type: graphql.NewList(graphql.String)},
			"created_at":  &graphql.Field{Type: graphql.DateTime},
			"updated_at":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyListing",
		Fields: graphql.Fields{
			"listing": &graphql.Field{Type: listingType},
			"distance_km": &graphql.Field{
				Type:        graphql.Float,
				Description: "Null when the search centre was not a valid coordinate",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					item, ok := p.Source.(domain.SearchResultItem)
					if !ok || item.DistanceKm == nil {
						return nil, nil
					}
					return *item.DistanceKm, nil
				},
			},
		},
	})

	pageFields := func(name string, item graphql.Output) *graphql.Object {
		return graphql.NewObject(graphql.ObjectConfig{
			Name: name,
			Fields: graphql.Fields{
				"items":    &graphql.Field{Type: graphql.NewList(item)},
				"page":     &graphql.Field{Type: graphql.Int},
				"limit":    &graphql.Field{Type: graphql.Int},
				"total":    &graphql.Field{Type: graphql.Int},
				"has_next": &graphql.Field{Type: graphql.Boolean},
				"has_prev": &graphql.Field{Type: graphql.Boolean},
			},
		})
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"nearbyListings": &graphql.Field{
				Type:        pageFields("NearbyListingPage", resultType),
				Description: "Available listings within radius_km of a point, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 5.0},
					"category":  &graphql.ArgumentConfig{Type: graphql.String},
					"price_min": &graphql.ArgumentConfig{Type: graphql.Int},
					"price_max": &graphql.ArgumentConfig{Type: graphql.Int},
					"page":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := domain.SearchFilters{
						Center: domain.GeoPoint{
							Latitude:  p.Args["lat"].(float64),
							Longitude: p.Args["lng"].(float64),
						},
						RadiusKm: p.Args["radius_km"].(float64),
						Limit:    p.Args["limit"].(int),
						PriceMin: intArg(p.Args, "price_min"),
						PriceMax: intArg(p.Args, "price_max"),
					}
					cat, err := categoryArg(p.Args)
					if err != nil {
						return nil, err
					}
					f.Category = cat
					return deps.Search.Search(p.Context, f, p.Args["page"].(int))
				},
			},
			"listing": &graphql.Field{
				Type:        listingType,
				Description: "Get a listing by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Listings.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"listings": &graphql.Field{
				Type:        pageFields("ListingPage", listingType),
				Description: "Browse listings, newest first",
				Args: graphql.FieldConfigArgument{
					"category":  &graphql.ArgumentConfig{Type: graphql.String},
					"status":    &graphql.ArgumentConfig{Type: graphql.String},
					"seller_id": &graphql.ArgumentConfig{Type: graphql.String},
					"page":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var f usecases.ListFilter
					cat, err := categoryArg(p.Args)
					if err != nil {
						return nil, err
					}
					f.Category = cat
					if s, ok := p.Args["status"].(string); ok && s != "" {
						status := domain.ListingStatus(s)
						f.Status = &status
					}
					f.SellerID, _ = p.Args["seller_id"].(string)
					return deps.Listings.List(p.Context, f, p.Args["page"].(int), p.Args["limit"].(int))
				},
			},
			"resolveRegion": &graphql.Field{
				Type:        graphql.String,
				Description: "Name of the region nearest to a point; null for an invalid coordinate",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name := deps.Regions.ResolveRegion(domain.GeoPoint{
						Latitude:  p.Args["lat"].(float64),
						Longitude: p.Args["lng"].(float64),
					})
					if name == "" {
						return nil, nil
					}
					return name, nil
				},
			},
			"regions": &graphql.Field{
				Type: graphql.NewList(graphql.NewObject(graphql.ObjectConfig{
					Name: "Region",
					Fields: graphql.Fields{
						"name":   &graphql.Field{Type: graphql.String},
						"center": &graphql.Field{Type: geoPointType},
					},
				})),
				Description: "Configured region table",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Regions.List(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func intArg(args map[string]interface{}, key string) *int {
	if v, ok := args[key].(int); ok {
		return &v
	}
	return nil
}

func categoryArg(args map[string]interface{}) (*domain.Category, error) {
	s, ok := args["category"].(string)
	if !ok || s == "" {
		return nil, nil
	}
	cat := domain.Category(s)
	if !cat.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	return &cat, nil
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// programming error in the schema definition
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
