package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
)

type MaterialRequestRepository struct {
	db *gorm.DB
}

func NewMaterialRequestRepository(db *gorm.DB) *MaterialRequestRepository {
	return &MaterialRequestRepository{db: db}
}

func (r *MaterialRequestRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User").Preload("Material").Preload("ApprovedBy")
}

// All lists requests newest first.
func (r *MaterialRequestRepository) All(ctx context.Context) ([]models.MaterialRequest, error) {
	var reqs []models.MaterialRequest
	err := r.withRelations(ctx).Order("created_at desc").Find(&reqs).Error
	return reqs, err
}

func (r *MaterialRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (models.MaterialRequest, error) {
	var req models.MaterialRequest
	err := r.withRelations(ctx).Where("id = ?", id).First(&req).Error
	return req, err
}

func (r *MaterialRequestRepository) Create(ctx context.Context, req *models.MaterialRequest) error {
	return r.db.WithContext(ctx).Omit("User", "Material", "ApprovedBy").Create(req).Error
}

func (r *MaterialRequestRepository) Update(ctx context.Context, req *models.MaterialRequest) error {
	return r.db.WithContext(ctx).Model(req).
		Select("Quantity", "Status", "ApprovedByID", "UpdatedAt").
		Updates(req).Error
}
