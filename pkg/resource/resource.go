// Package resource turns models into the JSON shapes the API returns.
//
// A transformer is a plain function from model to view:
//
//	func ProductView(p models.Product) ProductJSON { ... }
//
//	c.Success(resource.Many(products, ProductView))
//	c.Success(resource.Page(products, pagination, ProductView))
package resource

import (
	"github.com/samber/lo"

	"github.com/AkaOko/react-trpo/pkg/orm"
)

// Transformer maps one model to its view.
type Transformer[T, V any] func(T) V

// One transforms a single model.
func One[T, V any](item T, fn Transformer[T, V]) V {
	return fn(item)
}

// Many transforms a slice, never returning nil so it encodes as [].
func Many[T, V any](items []T, fn Transformer[T, V]) []V {
	if len(items) == 0 {
		return []V{}
	}
	return lo.Map(items, func(item T, _ int) V { return fn(item) })
}

// Paged is a page of views with its pagination metadata.
type Paged[V any] struct {
	Items      []V            `json:"items"`
	Pagination orm.Pagination `json:"pagination"`
}

// Page transforms a page of models.
func Page[T, V any](items []T, p orm.Pagination, fn Transformer[T, V]) Paged[V] {
	return Paged[V]{Items: Many(items, fn), Pagination: p}
}
