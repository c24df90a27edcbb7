package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role classifies a user. The zero value means no role has been chosen yet
// and is persisted as NULL.
type Role string

const (
	RoleUnset  Role = ""
	RoleMentor Role = "mentor"
	RoleSeeker Role = "seeker"
)

// ParseRole accepts "mentor" and "seeker" (and the legacy "solicitante").
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mentor":
		return RoleMentor, nil
	case "seeker", "solicitante":
		return RoleSeeker, nil
	default:
		return RoleUnset, fmt.Errorf("unknown role %q", s)
	}
}

// IsSet reports whether the role is one of the assignable roles.
func (r Role) IsSet() bool {
	switch r {
	case RoleMentor, RoleSeeker:
		return true
	default:
		return false
	}
}

// DashboardPath is the page a user with this role lands on.
func (r Role) DashboardPath() string {
	switch r {
	case RoleMentor:
		return "/dashboard/mentor"
	case RoleSeeker:
		return "/dashboard/seeker"
	default:
		return "/select-role"
	}
}

func (r Role) Value() (driver.Value, error) {
	if r == RoleUnset {
		return nil, nil
	}
	return string(r), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = RoleUnset
	case string:
		*r = storedRole(v)
	case []byte:
		*r = storedRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	return nil
}

// Rows written before the rename still say "solicitante".
func storedRole(s string) Role {
	if s == "solicitante" {
		return RoleSeeker
	}
	return Role(s)
}
