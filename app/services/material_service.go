package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/repositories"
	"github.com/AkaOko/react-trpo/pkg/rbac"
)

type MaterialInput struct {
	Name         string
	PricePerGram *decimal.Decimal
	Quantity     int
	SupplierID   *uuid.UUID
}

// MaterialPatch edits a material. Nil fields are unchanged.
type MaterialPatch struct {
	Name         *string
	PricePerGram *decimal.Decimal
	Quantity     *int
	SupplierID   *uuid.UUID
}

type MaterialService struct {
	db        *gorm.DB
	materials *repositories.MaterialRepository
}

func NewMaterialService(db *gorm.DB) *MaterialService {
	return &MaterialService{db: db, materials: repositories.NewMaterialRepository(db)}
}

func (s *MaterialService) List(ctx context.Context) ([]models.Material, error) {
	return s.materials.All(ctx)
}

func (s *MaterialService) Create(ctx context.Context, actor Actor, in MaterialInput) (*models.Material, error) {
	if !actor.Can(rbac.MaterialsManage) {
		return nil, ErrForbidden
	}
	m := models.Material{
		Name:         strings.TrimSpace(in.Name),
		PricePerGram: in.PricePerGram,
		Quantity:     in.Quantity,
		SupplierID:   in.SupplierID,
	}
	if err := s.check(ctx, &m); err != nil {
		return nil, err
	}
	if err := s.materials.Create(ctx, &m); err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	return &m, nil
}

func (s *MaterialService) Update(ctx context.Context, actor Actor, id uuid.UUID, in MaterialPatch) (*models.Material, error) {
	if !actor.Can(rbac.MaterialsManage) {
		return nil, ErrForbidden
	}
	m, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrMaterialNotFound)
	}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.PricePerGram != nil {
		m.PricePerGram = in.PricePerGram
	}
	if in.Quantity != nil {
		m.Quantity = *in.Quantity
	}
	if in.SupplierID != nil {
		m.SupplierID = in.SupplierID
	}
	if err := s.check(ctx, &m); err != nil {
		return nil, err
	}
	if err := s.materials.Update(ctx, &m); err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}
	return &m, nil
}

// check validates m against the rows it must not collide with or dangle from.
func (s *MaterialService) check(ctx context.Context, m *models.Material) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if m.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	if m.PricePerGram != nil && m.PricePerGram.IsNegative() {
		return fmt.Errorf("%w: pricePerGram must not be negative", ErrInvalidInput)
	}

	existing, err := s.materials.FindByName(ctx, m.Name)
	switch {
	case err == nil && existing.ID != m.ID:
		return ErrMaterialExists
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if m.SupplierID != nil {
		supplier, err := repositories.NewUserRepository(s.db).FindByID(ctx, *m.SupplierID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if supplier.Role != models.RoleSupplier {
			return fmt.Errorf("%w: supplier must have the SUPPLIER role", ErrInvalidInput)
		}
	}
	return nil
}
