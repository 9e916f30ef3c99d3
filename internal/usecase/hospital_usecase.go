// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"medtracker/internal/domain/entity"
)

// HospitalUsecase defines the read side of the facility directory. Every
// hospital comes back with a normalized availability snapshot, whether or not
// an availability row exists yet.
type HospitalUsecase interface {
	// ListHospitals returns all hospitals ordered by name, each with its
	// normalized availability snapshot.
	ListHospitals(ctx context.Context) ([]*entity.HospitalAvailability, error)

	// GetHospital returns one hospital with its normalized snapshot.
	GetHospital(ctx context.Context, id int64) (*entity.HospitalAvailability, error)
}
