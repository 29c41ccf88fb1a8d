package model

import "strings"

// Role is one of the three console roles.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleManager, RoleCashier}

// ParseRole normalizes s and reports whether it names a known role.
// Unknown values are returned upper-cased so they still round-trip.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
