// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a profile can have in the system.
// The set is closed: availability write authorization switches over it
// exhaustively, so a new role cannot silently gain write access.
type Role string

const (
	// RolePatient indicates a read-only patient account.
	RolePatient Role = "patient"
	// RoleHospitalAdmin indicates an account managing exactly one hospital.
	RoleHospitalAdmin Role = "hospital_admin"
	// RoleAdmin indicates a super-admin able to update any hospital.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleHospitalAdmin, RoleAdmin:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, filtering out invalid role strings.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}
