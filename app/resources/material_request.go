package resources

import (
	"time"

	"github.com/google/uuid"

	"github.com/AkaOko/react-trpo/app/models"
)

type MaterialRequest struct {
	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"userId"`
	MaterialID   uuid.UUID            `json:"materialId"`
	Quantity     int                  `json:"quantity"`
	Status       models.RequestStatus `json:"status"`
	ApprovedByID *uuid.UUID           `json:"approvedById,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	User         *UserSummary         `json:"user,omitempty"`
	ApprovedBy   *UserSummary         `json:"approvedBy,omitempty"`
	Material     *models.Material     `json:"material,omitempty"`
}

func MaterialRequestOf(r models.MaterialRequest) MaterialRequest {
	return MaterialRequest{
		ID:           r.ID,
		UserID:       r.UserID,
		MaterialID:   r.MaterialID,
		Quantity:     r.Quantity,
		Status:       r.Status,
		ApprovedByID: r.ApprovedByID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		User:         Summary(r.User),
		ApprovedBy:   Summary(r.ApprovedBy),
		Material:     r.Material,
	}
}
