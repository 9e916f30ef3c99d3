// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Sex is the self-reported sex recorded on a profile.
type Sex string

const (
	// SexMale indicates male.
	SexMale Sex = "male"
	// SexFemale indicates female.
	SexFemale Sex = "female"
	// SexOther indicates any other or undisclosed value.
	SexOther Sex = "other"
)

// String returns the string representation of the Sex.
func (s Sex) String() string {
	return string(s)
}

// IsValid checks if the Sex is a valid value.
func (s Sex) IsValid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	default:
		return false
	}
}

// Profile is the application-level record describing a user, keyed by the
// identity it belongs to. Exactly one profile exists per identity, created by
// the sign-up flow and never deleted by the application.
//
// HospitalName is a denormalized cache of the managed Hospital's name and can
// drift from the canonical value; the profile read path repairs it
// best-effort, it is not a consistency mechanism.
type Profile struct {
	UserID       uuid.UUID // Foreign key to the owning identity; also the primary key.
	Name         string    // Display name.
	Age          int       // Age in years, >= 0. Only meaningful for patients.
	Sex          Sex       // Self-reported sex.
	Role         Role      // Closed role enum; set at provisioning time only.
	PhoneNumber  string    // Optional contact number.
	HospitalID   *int64    // Set only for hospital_admin; references the managed Hospital.
	HospitalName string    // Denormalized Hospital.name; see drift note above.
	Address      string    // Optional postal address.
	AvatarURL    string    // Optional public URL of the profile photo in object storage.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
