package postgres

import (
	"context"

	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// hospitalRepository implements the domain's HospitalRepository interface using GORM.
type hospitalRepository struct {
	db *gorm.DB
}

// NewHospitalRepository is the constructor for hospitalRepository.
func NewHospitalRepository(db *gorm.DB) repository.HospitalRepository {
	return &hospitalRepository{db: db}
}

// ListWithAvailability returns every hospital with its availability rows
// preloaded, ordered by name. Hospitals without a row come back with an empty
// association; the caller normalizes all shapes into one snapshot.
func (repo *hospitalRepository) ListWithAvailability(ctx context.Context) ([]*entity.Hospital, map[int64][]*entity.Availability, error) {
	var hospitalMs []*model.HospitalModel
	err := repo.db.WithContext(ctx).
		Preload("Availability").
		Order("name ASC").
		Find(&hospitalMs).Error
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list hospitals with availability")
	}

	hospitals := make([]*entity.Hospital, 0, len(hospitalMs))
	availability := make(map[int64][]*entity.Availability, len(hospitalMs))
	for _, hospitalM := range hospitalMs {
		hospitals = append(hospitals, toHospitalDomain(hospitalM))
		for i := range hospitalM.Availability {
			row := toAvailabilityDomain(&hospitalM.Availability[i])
			availability[hospitalM.ID] = append(availability[hospitalM.ID], row)
		}
	}

	return hospitals, availability, nil
}

// List returns every hospital ordered by name, without availability.
func (repo *hospitalRepository) List(ctx context.Context) ([]*entity.Hospital, error) {
	var hospitalMs []*model.HospitalModel
	err := repo.db.WithContext(ctx).
		Order("name ASC").
		Find(&hospitalMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list hospitals")
	}

	hospitals := make([]*entity.Hospital, 0, len(hospitalMs))
	for _, hospitalM := range hospitalMs {
		hospitals = append(hospitals, toHospitalDomain(hospitalM))
	}

	return hospitals, nil
}

// FindByID retrieves a single hospital.
func (repo *hospitalRepository) FindByID(ctx context.Context, id int64) (*entity.Hospital, error) {
	var hospitalM model.HospitalModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&hospitalM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrHospitalNotFound
		}

		return nil, errors.Wrap(err, "failed to find hospital by id")
	}

	return toHospitalDomain(&hospitalM), nil
}

// FindByAdminID retrieves the hospital administered by the given identity.
func (repo *hospitalRepository) FindByAdminID(ctx context.Context, adminID uuid.UUID) (*entity.Hospital, error) {
	var hospitalM model.HospitalModel
	err := repo.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		First(&hospitalM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrHospitalNotFound
		}

		return nil, errors.Wrap(err, "failed to find hospital by admin id")
	}

	return toHospitalDomain(&hospitalM), nil
}

// Create provisions a new hospital row.
func (repo *hospitalRepository) Create(ctx context.Context, hospital *entity.Hospital) error {
	hospitalM := fromHospitalDomain(hospital)

	if err := repo.db.WithContext(ctx).Create(hospitalM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required hospital information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create hospital")
	}

	hospital.ID = hospitalM.ID
	hospital.CreatedAt = hospitalM.CreatedAt
	hospital.UpdatedAt = hospitalM.UpdatedAt

	return nil
}

// --- Mapper Functions ---

func toHospitalDomain(data *model.HospitalModel) *entity.Hospital {
	if data == nil {
		return nil
	}

	return &entity.Hospital{
		ID:          data.ID,
		Name:        data.Name,
		Address:     data.Address,
		PhoneNumber: data.PhoneNumber,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		AdminID:     data.AdminID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromHospitalDomain(data *entity.Hospital) *model.HospitalModel {
	if data == nil {
		return nil
	}

	return &model.HospitalModel{
		ID:          data.ID,
		Name:        data.Name,
		Address:     data.Address,
		PhoneNumber: data.PhoneNumber,
		Latitude:    data.Latitude,
		Longitude:   data.Longitude,
		AdminID:     data.AdminID,
	}
}

func toAvailabilityDomain(data *model.AvailabilityModel) *entity.Availability {
	if data == nil {
		return nil
	}

	return &entity.Availability{
		HospitalID:      data.HospitalID,
		AvailableBeds:   data.AvailableBeds,
		AvailableOxygen: data.AvailableOxygen,
		LastUpdated:     data.LastUpdated,
		UpdatedBy:       data.UpdatedBy,
	}
}
