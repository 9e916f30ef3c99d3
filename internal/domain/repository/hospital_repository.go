// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"medtracker/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrHospitalNotFound is returned when a hospital is not found.
var ErrHospitalNotFound = errors.New("hospital not found")

// HospitalRepository defines the operations for hospital persistence.
type HospitalRepository interface {
	// ListWithAvailability returns all hospitals joined with their
	// availability rows, ordered by hospital name ascending. Hospitals
	// without an availability row are included with an empty association.
	ListWithAvailability(ctx context.Context) ([]*entity.Hospital, map[int64][]*entity.Availability, error)

	// List returns all hospitals ordered by name, without availability.
	// Together with AvailabilityRepository.ListAll it backs the in-process
	// join fallback when the joined query fails.
	List(ctx context.Context) ([]*entity.Hospital, error)

	// FindByID retrieves a single hospital.
	FindByID(ctx context.Context, id int64) (*entity.Hospital, error)

	// FindByAdminID retrieves the hospital administered by the given identity.
	FindByAdminID(ctx context.Context, adminID uuid.UUID) (*entity.Hospital, error)

	// Create provisions a new hospital row. Used only by the hospital-admin
	// sign-up transaction.
	Create(ctx context.Context, hospital *entity.Hospital) error
}
