// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"medtracker/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific sentinel errors for user persistence.
var (
	// ErrUserNotFound is returned when an identity is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrProfileNotFound is returned when an identity exists but carries no profile row.
	ErrProfileNotFound = errors.New("profile not found")
)

// UserRepository defines the standard operations for identity and profile
// persistence. The application layer depends on this interface, not the
// concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user with its profile by identity id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user with its profile by email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new identity together with its profile.
	Create(ctx context.Context, user *entity.User) error

	// UpdateProfile persists the mutable fields of an existing profile.
	// Role and HospitalID are provisioning-time fields and are not written
	// through this method.
	UpdateProfile(ctx context.Context, profile *entity.Profile) error

	// AssignHospital links a profile to its managed hospital. Used only by
	// the hospital-admin provisioning transaction, after the hospital row
	// has been created and its id is known.
	AssignHospital(ctx context.Context, userID uuid.UUID, hospitalID int64, hospitalName string) error
}
