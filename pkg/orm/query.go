// Package orm wraps *gorm.DB with the few chainable helpers the
// repositories share: pagination and read-through caching.
package orm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/pkg/cache"
)

// Pagination is the metadata returned next to a paginated result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Query struct {
	db    *gorm.DB
	store cache.Store
}

// New starts a query on db. store may be nil, which disables Cache.
func New(ctx context.Context, db *gorm.DB, store cache.Store) *Query {
	return &Query{db: db.WithContext(ctx), store: store}
}

func (q *Query) with(db *gorm.DB) *Query {
	return &Query{db: db, store: q.store}
}

func (q *Query) Model(v interface{}) *Query {
	return q.with(q.db.Model(v))
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return q.with(q.db.Where(query, args...))
}

func (q *Query) Not(query interface{}, args ...interface{}) *Query {
	return q.with(q.db.Not(query, args...))
}

func (q *Query) Order(value interface{}) *Query {
	return q.with(q.db.Order(value))
}

func (q *Query) Preload(query string, args ...interface{}) *Query {
	return q.with(q.db.Preload(query, args...))
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Paginate loads one page into dest. page starts at 1; limit is capped at 100.
func (q *Query) Paginate(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}

	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}, nil
}

// Cache serves dest from the store when present, otherwise runs the query
// and stores the result for ttl. Store errors never fail the query.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	ctx := q.db.Statement.Context
	if q.store != nil && q.store.Get(ctx, key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if q.store != nil {
		_ = q.store.Set(ctx, key, dest, ttl)
	}
	return nil
}
