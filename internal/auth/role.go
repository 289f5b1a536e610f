package auth

import (
	"fmt"
	"strings"
)

// Role is the coarse classification every user carries.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleMember     Role = "member"
	RoleGuest      Role = "guest"
)

// Roles lists the canonical roles in descending privilege.
var Roles = []Role{RoleAdmin, RoleTechnician, RoleMember, RoleGuest}

// ParseRole accepts canonical names plus the legacy "manager" and "user" aliases.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "technician", "manager":
		return RoleTechnician, nil
	case "member", "user":
		return RoleMember, nil
	case "guest":
		return RoleGuest, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleMember, RoleGuest:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
