package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// All lists materials by name, the custom-order placeholder included.
func (r *MaterialRepository) All(ctx context.Context) ([]models.Material, error) {
	var materials []models.Material
	err := r.db.WithContext(ctx).Order("name").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (models.Material, error) {
	var m models.Material
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	return m, err
}

func (r *MaterialRepository) FindByName(ctx context.Context, name string) (models.Material, error) {
	var m models.Material
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	return m, err
}

// FirstOrCreateByName returns the material called name, creating an empty
// one when it does not exist.
func (r *MaterialRepository) FirstOrCreateByName(ctx context.Context, name string) (models.Material, error) {
	var m models.Material
	err := r.db.WithContext(ctx).Where(models.Material{Name: name}).FirstOrCreate(&m).Error
	return m, err
}

func (r *MaterialRepository) Create(ctx context.Context, m *models.Material) error {
	return r.db.WithContext(ctx).Omit("Supplier").Create(m).Error
}

func (r *MaterialRepository) Update(ctx context.Context, m *models.Material) error {
	return r.db.WithContext(ctx).Model(m).
		Select("Name", "PricePerGram", "Quantity", "SupplierID", "UpdatedAt").
		Updates(m).Error
}
