// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"medtracker/internal/domain/entity"
)

// ErrDuplicateAvailability is returned when an insert lost the first-write
// race for a hospital: another writer created the row between this writer's
// update attempt and its insert. The application surfaces this conflict
// rather than retrying.
var ErrDuplicateAvailability = errors.New("availability row already exists for hospital")

// AvailabilityRepository defines the operations for availability persistence.
//
// The write path is deliberately two independent statements, UpdateCounts
// then Insert, mirroring how the availability snapshot has always been
// maintained: not atomic across writers, backstopped only by the storage
// unique constraint on hospital_id.
type AvailabilityRepository interface {
	// UpdateCounts updates the existing availability row of one hospital and
	// reports how many rows were affected. Zero means no row exists yet.
	UpdateCounts(ctx context.Context, row *entity.Availability) (int64, error)

	// Insert creates the first availability row for a hospital. Returns
	// ErrDuplicateAvailability when a concurrent writer inserted first.
	Insert(ctx context.Context, row *entity.Availability) error

	// FindByHospitalID retrieves the availability row of one hospital, or
	// nil when none exists yet.
	FindByHospitalID(ctx context.Context, hospitalID int64) (*entity.Availability, error)

	// ListAll retrieves every availability row, for the in-process join
	// fallback of the read path.
	ListAll(ctx context.Context) ([]*entity.Availability, error)
}
