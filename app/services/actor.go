package services

import (
	"github.com/google/uuid"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/pkg/rbac"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) Can(perm rbac.Permission) bool {
	return rbac.Can(string(a.Role), perm)
}
