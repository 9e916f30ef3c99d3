// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
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

// userRepository implements the domain's UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by identity id, preloading its profile.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Profile").
		Where("id = ?", id).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by email address, preloading its profile.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity together with its profile. GORM's Create
// with associations inserts into users and profiles in one statement batch.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid foreign key reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	if user.Profile != nil && userM.Profile != nil {
		user.Profile.UserID = userM.Profile.UserID
		user.Profile.UpdatedAt = userM.Profile.UpdatedAt
	}

	return nil
}

// UpdateProfile persists the mutable profile fields. Role and HospitalID are
// provisioning-time columns and are deliberately absent from the update set;
// HospitalName is included because the profile read path repairs it here.
func (repo *userRepository) UpdateProfile(ctx context.Context, profile *entity.Profile) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]any{
			"name":          profile.Name,
			"age":           profile.Age,
			"sex":           profile.Sex.String(),
			"phone_number":  profile.PhoneNumber,
			"hospital_name": profile.HospitalName,
			"address":       profile.Address,
			"avatar_url":    profile.AvatarURL,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}

// AssignHospital links a freshly provisioned hospital to its admin's profile.
func (repo *userRepository) AssignHospital(ctx context.Context, userID uuid.UUID, hospitalID int64, hospitalName string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"hospital_id":   hospitalID,
			"hospital_name": hospitalName,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to assign hospital to profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProfileNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:        data.ID,
		Email:     data.Email,
		Profile:   toProfileDomain(data.Profile),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:      data.ID,
		Email:   data.Email,
		Profile: fromProfileDomain(data.Profile),
	}
}

func toProfileDomain(data *model.ProfileModel) *entity.Profile {
	if data == nil {
		return nil
	}

	return &entity.Profile{
		UserID:       data.UserID,
		Name:         data.Name,
		Age:          data.Age,
		Sex:          entity.Sex(data.Sex),
		Role:         entity.Role(data.Role),
		PhoneNumber:  data.PhoneNumber,
		HospitalID:   data.HospitalID,
		HospitalName: data.HospitalName,
		Address:      data.Address,
		AvatarURL:    data.AvatarURL,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromProfileDomain(data *entity.Profile) *model.ProfileModel {
	if data == nil {
		return nil
	}

	return &model.ProfileModel{
		UserID:       data.UserID,
		Name:         data.Name,
		Age:          data.Age,
		Sex:          data.Sex.String(),
		Role:         data.Role.String(),
		PhoneNumber:  data.PhoneNumber,
		HospitalID:   data.HospitalID,
		HospitalName: data.HospitalName,
		Address:      data.Address,
		AvatarURL:    data.AvatarURL,
	}
}
