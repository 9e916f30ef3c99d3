// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"io"

	"medtracker/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// UpdateProfileInput defines the data required to update a profile. Nil
// fields are left untouched. Role and the hospital link are provisioning-time
// fields and cannot be changed here; for hospital administrators the cached
// hospital name is likewise read-only because it mirrors the hospitals table.
type UpdateProfileInput struct {
	Name         *string `json:"name,omitempty"`
	Age          *int    `json:"age,omitempty"`
	Sex          *string `json:"sex,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	HospitalName *string `json:"hospital_name,omitempty"`
	Address      *string `json:"address,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
}

// UploadAvatarInput carries the uploaded profile photo.
type UploadAvatarInput struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	// GetProfile returns the caller's profile. A missing profile surfaces as
	// an error; it is never silently replaced with a default.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// UpdateProfile applies the non-nil fields of the input and returns the
	// updated profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.Profile, error)

	// UploadAvatar stores a new profile photo and records its public URL.
	UploadAvatar(ctx context.Context, userID uuid.UUID, input *UploadAvatarInput) (*entity.Profile, error)

	// RemoveAvatar clears the profile photo URL.
	RemoveAvatar(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
}
