package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleWorker   Role = "WORKER"
	RoleAdmin    Role = "ADMIN"
	RoleSupplier Role = "SUPPLIER"
	RoleDirector Role = "DIRECTOR"
)

var roles = []Role{RoleClient, RoleWorker, RoleAdmin, RoleSupplier, RoleDirector}

// Roles lists every role in a stable order.
func Roles() []Role {
	return append([]Role(nil), roles...)
}

func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole accepts any letter case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
