package domain

import "strings"

// Role is an actor's role within the platform.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleMember     Role = "member"
	RoleOrgAdmin   Role = "organization_admin"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole normalizes a raw role value. Unknown values map to
// RoleCustomer, the least privileged role.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleMember:
		return RoleMember
	case RoleOrgAdmin:
		return RoleOrgAdmin
	case RoleSuperAdmin:
		return RoleSuperAdmin
	default:
		return RoleCustomer
	}
}

// AdminTier reports whether the role grants access to admin destinations.
func (r Role) AdminTier() bool {
	return r == RoleOrgAdmin || r == RoleSuperAdmin
}

// Actor represents the current user of the system: authenticated user,
// demo user, or anonymous.
type Actor struct {
	// Key is the stable identity the mode store is keyed by (user id or
	// email, per the configured precedence). Empty for anonymous actors.
	Key           string `json:"key"`
	Email         string `json:"email,omitempty"`
	Authenticated bool   `json:"authenticated"`
	Role          Role   `json:"role"`
	Demo          bool   `json:"demo"`
}

// Anonymous is the resolved state when no usable identity exists.
var Anonymous = Actor{Role: RoleCustomer}

// Profile is the actor profile returned by the identity backend.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Demo  bool   `json:"demo"`
}
