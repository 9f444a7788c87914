package domain

import (
	"fmt"
	"strings"
)

// Role enumerates the registry's caller roles. Values match what is persisted
// in the users table.
type Role string

const (
	RoleEmployer         Role = "EMPLOYEUR"
	RoleDoctor           Role = "MEDECIN"
	RoleRegionalDirector Role = "DIRECTEUR_REGIONAL"
	RoleZoneChief        Role = "CHEF_DE_ZONE"
	RoleAdmin            Role = "ADMIN"
)

var roleLabels = map[Role]string{
	RoleEmployer:         "Employeur",
	RoleDoctor:           "Médecin",
	RoleRegionalDirector: "Directeur Régional",
	RoleZoneChief:        "Chef de Zone",
	RoleAdmin:            "Administrateur",
}

// AllRoles returns every known role in display order.
func AllRoles() []Role {
	return []Role{RoleEmployer, RoleDoctor, RoleRegionalDirector, RoleZoneChief, RoleAdmin}
}

// ParseRole normalizes and validates a role name.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the human readable name of the role.
func (r Role) Label() string {
	return roleLabels[r]
}

func (r Role) String() string {
	return string(r)
}

// RoleSet is an immutable set of roles used by authorization gates.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Contains reports whether role is in the set.
func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}

// Roles returns the members of the set in the canonical role order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for _, role := range AllRoles() {
		if s.Contains(role) {
			out = append(out, role)
		}
	}
	return out
}
