// Package graphql exposes the catalog as a read-only GraphQL schema.
package graphql

import (
	"errors"

	"github.com/google/uuid"
	gql "github.com/graphql-go/graphql"
	"github.com/samber/lo"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/services"
	appgql "github.com/AkaOko/react-trpo/pkg/graphql"
)

// Money is rendered as a decimal string so no precision is lost.
var materialType = gql.NewObject(gql.ObjectConfig{
	Name: "Material",
	Fields: gql.Fields{
		"id":           &gql.Field{Type: gql.NewNonNull(gql.ID)},
		"name":         &gql.Field{Type: gql.NewNonNull(gql.String)},
		"pricePerGram": &gql.Field{Type: gql.String},
		"quantity":     &gql.Field{Type: gql.NewNonNull(gql.Int)},
	},
})

var productType = gql.NewObject(gql.ObjectConfig{
	Name: "Product",
	Fields: gql.Fields{
		"id":       &gql.Field{Type: gql.NewNonNull(gql.ID)},
		"name":     &gql.Field{Type: gql.NewNonNull(gql.String)},
		"type":     &gql.Field{Type: gql.NewNonNull(gql.String)},
		"price":    &gql.Field{Type: gql.NewNonNull(gql.String)},
		"image":    &gql.Field{Type: gql.String},
		"material": &gql.Field{Type: materialType},
	},
})

func materialView(m *models.Material) map[string]any {
	if m == nil {
		return nil
	}
	v := map[string]any{
		"id":       m.ID.String(),
		"name":     m.Name,
		"quantity": m.Quantity,
	}
	if m.PricePerGram != nil {
		v["pricePerGram"] = m.PricePerGram.String()
	}
	return v
}

func productView(p models.Product) map[string]any {
	v := map[string]any{
		"id":    p.ID.String(),
		"name":  p.Name,
		"type":  string(p.Type),
		"price": p.Price.String(),
	}
	if p.Material != nil {
		v["material"] = materialView(p.Material)
	}
	if p.Image != "" {
		v["image"] = p.Image
	}
	return v
}

// NewCatalogSchema builds the schema over the catalog and material services.
func NewCatalogSchema(catalog *services.CatalogService, materials *services.MaterialService) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(productType))),
				Args: gql.FieldConfigArgument{
					"type": &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					products, err := catalog.ListProducts(p.Context)
					if err != nil {
						return nil, err
					}
					if typ, ok := p.Args["type"].(string); ok && typ != "" {
						want, err := models.ParseProductType(typ)
						if err != nil {
							return nil, err
						}
						products = lo.Filter(products, func(pr models.Product, _ int) bool { return pr.Type == want })
					}
					return lo.Map(products, func(pr models.Product, _ int) map[string]any { return productView(pr) }), nil
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					id, err := uuid.Parse(p.Args["id"].(string))
					if err != nil {
						return nil, errors.New("id must be a UUID")
					}
					product, err := catalog.GetProduct(p.Context, id)
					if errors.Is(err, services.ErrProductNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return productView(*product), nil
				},
			},
			"materials": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(materialType))),
				Resolve: func(p gql.ResolveParams) (any, error) {
					list, err := materials.List(p.Context)
					if err != nil {
						return nil, err
					}
					return lo.Map(list, func(m models.Material, _ int) map[string]any { return materialView(&m) }), nil
				},
			},
			"productTypes": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(gql.String))),
				Resolve: func(p gql.ResolveParams) (any, error) {
					return catalog.ProductTypes(p.Context)
				},
			},
		},
	})
	return appgql.NewSchema(query)
}
