package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is a closed enumeration. Privilege checks go through CanModerate,
// never through string comparison in handlers.
type Role int

const (
	RoleUser Role = iota
	RoleModerator
)

func (r Role) String() string {
	switch r {
	case RoleModerator:
		return "moderator"
	default:
		return "user"
	}
}

func (r Role) CanModerate() bool { return r == RoleModerator }

func ParseRole(s string) (Role, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "moderator", "admin": // tokens minted before the rename carry "admin"
		return RoleModerator, nil
	default:
		return RoleUser, fmt.Errorf("unknown role %q", s)
	}
}

// Identity is the verified caller, extracted from the bearer token.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}
