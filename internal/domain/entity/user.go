// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated identity issued at sign-up. It carries only the
// fields owned by the authentication layer; everything role-specific lives on
// the associated Profile.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the identity.
	Email     string    // The user's login email, unique across the system.
	Profile   *Profile  // The application-level profile. Nil when provisioning failed; never silently defaulted.
	CreatedAt time.Time // Timestamp of when this identity was created.
	UpdatedAt time.Time // Timestamp of the last modification.
}
