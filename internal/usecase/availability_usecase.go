// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"medtracker/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// UpdateAvailabilityInput carries one availability submission. Beds and
// Oxygen arrive as strings exactly as the caller typed them; validation
// parses them into non-negative integers and reports the offending fields by
// name. SelectedHospitalID is honored only for platform administrators;
// hospital administrators always write to their own facility.
type UpdateAvailabilityInput struct {
	Beds               string
	Oxygen             string
	SelectedHospitalID *int64
}

// --- Output DTOs ---

// UpdateAvailabilityOutput returns the refreshed view after a successful
// write: the target hospital with the snapshot just read back from storage.
type UpdateAvailabilityOutput struct {
	Hospital *entity.HospitalAvailability
}

// AvailabilityUsecase defines the write side of availability tracking.
type AvailabilityUsecase interface {
	// UpdateAvailability runs the full submission sequence: validate the
	// counts, resolve the target hospital from the caller's role, write the
	// snapshot, and read back the refreshed view.
	UpdateAvailability(ctx context.Context, userID uuid.UUID, input UpdateAvailabilityInput) (*UpdateAvailabilityOutput, error)
}
