package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/repositories"
	"github.com/AkaOko/react-trpo/pkg/logger"
	"github.com/AkaOko/react-trpo/pkg/rbac"
)

type MaterialRequestInput struct {
	MaterialID uuid.UUID
	Quantity   int
}

// MaterialRequestPatch edits a request. Nil fields are unchanged.
type MaterialRequestPatch struct {
	Status   *string
	Quantity *int
}

type MaterialRequestService struct {
	db       *gorm.DB
	requests *repositories.MaterialRequestRepository
}

func NewMaterialRequestService(db *gorm.DB) *MaterialRequestService {
	return &MaterialRequestService{db: db, requests: repositories.NewMaterialRequestRepository(db)}
}

func (s *MaterialRequestService) List(ctx context.Context, actor Actor) ([]models.MaterialRequest, error) {
	if !actor.Can(rbac.MaterialRequestsView) {
		return nil, ErrForbidden
	}
	return s.requests.All(ctx)
}

// Create files a PENDING request from the caller.
func (s *MaterialRequestService) Create(ctx context.Context, actor Actor, in MaterialRequestInput) (*models.MaterialRequest, error) {
	if !actor.Can(rbac.MaterialRequestsCreate) {
		return nil, ErrForbidden
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if _, err := repositories.NewMaterialRepository(s.db).FindByID(ctx, in.MaterialID); err != nil {
		return nil, notFound(err, ErrMaterialNotFound)
	}

	req := models.MaterialRequest{
		UserID:     actor.ID,
		MaterialID: in.MaterialID,
		Quantity:   in.Quantity,
		Status:     models.RequestPending,
	}
	if err := s.requests.Create(ctx, &req); err != nil {
		return nil, fmt.Errorf("create material request: %w", err)
	}
	return s.get(ctx, req.ID)
}

// Update lets the requester or an approver edit a request. Approving and
// rejecting need rbac.MaterialRequestsDecide and record the approver.
func (s *MaterialRequestService) Update(ctx context.Context, actor Actor, id uuid.UUID, in MaterialRequestPatch) (*models.MaterialRequest, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	decider := actor.Can(rbac.MaterialRequestsDecide)
	if !decider && req.UserID != actor.ID {
		return nil, ErrForbidden
	}

	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		if req.Status != models.RequestPending {
			return nil, fmt.Errorf("%w: quantity is fixed once the request is decided", ErrInvalidTransition)
		}
		req.Quantity = *in.Quantity
	}

	if in.Status != nil {
		next, err := models.ParseRequestStatus(*in.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if !req.Status.CanTransition(next) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, next)
		}
		if next != req.Status && next.IsDecision() {
			if !decider {
				return nil, ErrForbidden
			}
			approver := actor.ID
			req.ApprovedByID = &approver
		}
		if next != req.Status {
			logger.WithCtx(ctx).Info("material request status changed", "request_id", req.ID, "from", req.Status, "to", next)
		}
		req.Status = next
	}

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update material request: %w", err)
	}
	return s.get(ctx, id)
}

func (s *MaterialRequestService) get(ctx context.Context, id uuid.UUID) (*models.MaterialRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	return &req, nil
}
