// Package entity contains the core business objects of the project.
package entity

import (
	"errors"

	"github.com/google/uuid"
)

// Errors returned by write-target resolution. The usecase layer maps them to
// authorization failures; they never reach the network before being rejected.
var (
	// ErrWriteNotPermitted is returned when the actor's role carries no
	// availability write permission at all.
	ErrWriteNotPermitted = errors.New("role does not permit availability updates")
	// ErrNoManagedHospital is returned when a hospital admin has no resolvable
	// hospital to write to.
	ErrNoManagedHospital = errors.New("no managed hospital resolved for this account")
	// ErrNoHospitalSelected is returned when a super-admin submitted a write
	// without choosing a target hospital.
	ErrNoHospitalSelected = errors.New("no hospital selected")
)

// Actor is the authenticated principal as seen by the availability write
// path: the identity, its role, and, for hospital admins, the managed
// hospital. Building an Actor requires a loaded profile, which keeps the
// "role reachable but no target" bug class out of the write path.
type Actor struct {
	UserID     uuid.UUID
	Role       Role
	HospitalID *int64 // Managed hospital for hospital_admin; nil otherwise.
}

// ResolveTarget decides which hospital a write lands on. The switch is
// exhaustive over the closed Role set:
//
//   - hospital_admin writes are always scoped to the managed hospital,
//     regardless of any selection the caller supplied,
//   - admin writes require an explicit selection,
//   - patient writes are rejected outright.
//
// An unknown role falls through to rejection rather than to a default target.
func (a Actor) ResolveTarget(selected *int64) (int64, error) {
	switch a.Role {
	case RoleHospitalAdmin:
		if a.HospitalID == nil {
			return 0, ErrNoManagedHospital
		}

		return *a.HospitalID, nil
	case RoleAdmin:
		if selected == nil {
			return 0, ErrNoHospitalSelected
		}

		return *selected, nil
	case RolePatient:
		return 0, ErrWriteNotPermitted
	default:
		return 0, ErrWriteNotPermitted
	}
}
