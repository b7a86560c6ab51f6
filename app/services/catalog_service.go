package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/repositories"
	"github.com/AkaOko/react-trpo/pkg/cache"
	"github.com/AkaOko/react-trpo/pkg/logger"
	"github.com/AkaOko/react-trpo/pkg/orm"
)

// CatalogCacheKey holds the cached product listing.
const CatalogCacheKey = "catalog:products"

// ProductInput creates a product. The material is taken by id, or found or
// created by name when MaterialID is nil.
type ProductInput struct {
	Name         string
	Type         string
	Price        decimal.Decimal
	Image        string
	MaterialID   *uuid.UUID
	MaterialName string
}

// ProductPatch edits a product. Nil fields are unchanged.
type ProductPatch struct {
	Name         *string
	Type         *string
	Price        *decimal.Decimal
	Image        *string
	MaterialID   *uuid.UUID
	MaterialName *string
}

type CatalogService struct {
	db    *gorm.DB
	store cache.Store
	ttl   time.Duration
}

// NewCatalogService caches listings in store for ttl. A nil store disables
// caching.
func NewCatalogService(db *gorm.DB, store cache.Store, ttl time.Duration) *CatalogService {
	return &CatalogService{db: db, store: store, ttl: ttl}
}

// ListProducts returns the orderable catalog, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := orm.New(ctx, repositories.Catalog(s.db), s.store).
		Model(&models.Product{}).
		Preload("Material").
		Order("created_at desc").
		Cache(CatalogCacheKey, s.ttl, &products)
	return products, err
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := repositories.NewProductRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return &p, nil
}

// ProductTypes lists the distinct types present in the catalog.
func (s *CatalogService) ProductTypes(ctx context.Context) ([]string, error) {
	return repositories.NewProductRepository(s.db).Types(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	typ, err := models.ParseProductType(in.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	product := models.Product{
		Name:  strings.TrimSpace(in.Name),
		Type:  typ,
		Price: in.Price,
		Image: in.Image,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		materialID, err := resolveMaterial(ctx, tx, in.MaterialID, in.MaterialName)
		if err != nil {
			return err
		}
		product.MaterialID = materialID
		return repositories.NewProductRepository(tx).Create(ctx, &product)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetProduct(ctx, product.ID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductPatch) (*models.Product, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := repositories.NewProductRepository(tx)
		p, err := products.FindByID(ctx, id)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Type != nil {
			typ, err := models.ParseProductType(*in.Type)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			p.Type = typ
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
			}
			p.Price = *in.Price
		}
		if in.Image != nil {
			p.Image = *in.Image
		}
		if in.MaterialID != nil || (in.MaterialName != nil && *in.MaterialName != "") {
			name := ""
			if in.MaterialName != nil {
				name = *in.MaterialName
			}
			materialID, err := resolveMaterial(ctx, tx, in.MaterialID, name)
			if err != nil {
				return err
			}
			p.MaterialID = materialID
		}
		return products.Update(ctx, &p)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product no order refers to.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	products := repositories.NewProductRepository(s.db)
	p, err := products.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrProductNotFound)
	}
	if p.Name == models.CustomProductName && p.Type == models.ProductCustomOrder {
		return ErrProductInUse
	}
	n, err := products.CountOrderItems(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrProductInUse
	}
	if err := products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Del(ctx, CatalogCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}

func resolveMaterial(ctx context.Context, tx *gorm.DB, id *uuid.UUID, name string) (uuid.UUID, error) {
	materials := repositories.NewMaterialRepository(tx)
	if id != nil && *id != uuid.Nil {
		m, err := materials.FindByID(ctx, *id)
		if err != nil {
			return uuid.Nil, notFound(err, ErrMaterialNotFound)
		}
		return m.ID, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: material is required", ErrInvalidInput)
	}
	m, err := materials.FirstOrCreateByName(ctx, name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve material %q: %w", name, err)
	}
	return m.ID, nil
}
