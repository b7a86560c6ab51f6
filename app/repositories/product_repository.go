package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByIDs loads the distinct products among ids, keyed by id. Missing ids
// are simply absent from the map.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Material").Where("id = ?", id).First(&product).Error
	return product, err
}

// Catalog scopes a query to the products customers may order directly.
func Catalog(db *gorm.DB) *gorm.DB {
	return db.Not("name = ? AND type = ?", models.CustomProductName, models.ProductCustomOrder)
}

// Types lists the distinct catalog product types, sorted.
func (r *ProductRepository) Types(ctx context.Context) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("type <> ?", models.ProductCustomOrder).
		Distinct("type").
		Order("type").
		Pluck("type", &types).Error
	return types, err
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Material").Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("Name", "Type", "Price", "Image", "MaterialID", "UpdatedAt").
		Updates(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// CountOrderItems counts the line items that reference the product.
func (r *ProductRepository) CountOrderItems(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&n).Error
	return n, err
}
