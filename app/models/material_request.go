package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCompleted RequestStatus = "COMPLETED"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:   {RequestPending, RequestApproved, RequestRejected},
	RequestApproved:  {RequestApproved, RequestCompleted},
	RequestRejected:  {RequestRejected},
	RequestCompleted: {RequestCompleted},
}

func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := requestTransitions[st]; !ok {
		return "", fmt.Errorf("unknown request status %q", s)
	}
	return st, nil
}

func (s RequestStatus) CanTransition(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsDecision reports whether s records an approver's verdict.
func (s RequestStatus) IsDecision() bool {
	return s == RequestApproved || s == RequestRejected
}

// MaterialRequest asks for a restock of a material.
type MaterialRequest struct {
	Base
	UserID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	User         *User         `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	MaterialID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"materialId"`
	Material     *Material     `gorm:"constraint:OnDelete:CASCADE" json:"material,omitempty"`
	Quantity     int           `gorm:"not null" json:"quantity"`
	Status       RequestStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	ApprovedByID *uuid.UUID    `gorm:"type:uuid" json:"approvedById,omitempty"`
	ApprovedBy   *User         `gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL" json:"approvedBy,omitempty"`
}
