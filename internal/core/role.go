// AngelaMos | 2026
// role.go

package core

import (
	"fmt"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleClient:
		return RoleClient, nil
	}
	return "", fmt.Errorf("parse role %q: %w", s, ErrInvalidInput)
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// RoleSet is the allowed set of roles for one operation.
type RoleSet map[Role]struct{}

func AllowRoles(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Allows(r Role) bool {
	_, ok := s[r]
	return ok
}
