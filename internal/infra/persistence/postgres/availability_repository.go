package postgres

import (
	"context"

	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// availabilityRepository implements the domain's AvailabilityRepository interface using GORM.
//
// The two write methods are intentionally independent statements. UpdateCounts
// reports zero affected rows when no snapshot exists yet, and Insert relies on
// the unique index on hospital_id to reject a concurrent first write.
type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository is the constructor for availabilityRepository.
func NewAvailabilityRepository(db *gorm.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

// UpdateCounts updates an existing snapshot in place and returns the number
// of affected rows.
func (repo *availabilityRepository) UpdateCounts(ctx context.Context, row *entity.Availability) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.AvailabilityModel{}).
		Where("hospital_id = ?", row.HospitalID).
		Updates(map[string]any{
			"available_beds":   row.AvailableBeds,
			"available_oxygen": row.AvailableOxygen,
			"last_updated":     row.LastUpdated,
			"updated_by":       row.UpdatedBy,
		})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update availability")
	}

	return result.RowsAffected, nil
}

// Insert creates the first snapshot for a hospital.
func (repo *availabilityRepository) Insert(ctx context.Context, row *entity.Availability) error {
	rowM := &model.AvailabilityModel{
		HospitalID:      row.HospitalID,
		AvailableBeds:   row.AvailableBeds,
		AvailableOxygen: row.AvailableOxygen,
		LastUpdated:     row.LastUpdated,
		UpdatedBy:       row.UpdatedBy,
	}

	if err := repo.db.WithContext(ctx).Create(rowM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateAvailability
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrHospitalNotFound.WrapMessage("availability references unknown hospital")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to insert availability")
	}

	return nil
}

// FindByHospitalID retrieves one hospital's snapshot, or nil when none exists.
func (repo *availabilityRepository) FindByHospitalID(ctx context.Context, hospitalID int64) (*entity.Availability, error) {
	var rowM model.AvailabilityModel
	err := repo.db.WithContext(ctx).
		Where("hospital_id = ?", hospitalID).
		First(&rowM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to find availability by hospital id")
	}

	return toAvailabilityDomain(&rowM), nil
}

// ListAll retrieves every snapshot, backing the in-process join fallback.
func (repo *availabilityRepository) ListAll(ctx context.Context) ([]*entity.Availability, error) {
	var rowMs []*model.AvailabilityModel
	if err := repo.db.WithContext(ctx).Find(&rowMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list availability")
	}

	rows := make([]*entity.Availability, 0, len(rowMs))
	for _, rowM := range rowMs {
		rows = append(rows, toAvailabilityDomain(rowM))
	}

	return rows, nil
}
