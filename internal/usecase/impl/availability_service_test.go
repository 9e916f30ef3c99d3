package impl

import (
	"context"
	"testing"
	"time"

	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	mockRepo "medtracker/internal/mocks/repository"
	"medtracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type availabilityServiceFixtures struct {
	service          usecase.AvailabilityUsecase
	userRepo         *mockRepo.MockUserRepository
	hospitalRepo     *mockRepo.MockHospitalRepository
	availabilityRepo *mockRepo.MockAvailabilityRepository
}

func createTestAvailabilityService(t *testing.T) availabilityServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hospitalRepo := mockRepo.NewMockHospitalRepository(t)
	availabilityRepo := mockRepo.NewMockAvailabilityRepository(t)

	service := NewAvailabilityService(AvailabilityServiceParams{
		UserRepo:         userRepo,
		HospitalRepo:     hospitalRepo,
		AvailabilityRepo: availabilityRepo,
		Logger:           newDiscardLogger(),
	})

	return availabilityServiceFixtures{
		service:          service,
		userRepo:         userRepo,
		hospitalRepo:     hospitalRepo,
		availabilityRepo: availabilityRepo,
	}
}

func hospitalAdminUser(userID uuid.UUID, hospitalID int64) *entity.User {
	return &entity.User{
		ID: userID,
		Profile: &entity.Profile{
			UserID:     userID,
			Role:       entity.RoleHospitalAdmin,
			HospitalID: &hospitalID,
		},
	}
}

func expectRefresh(fixtures availabilityServiceFixtures, ctx context.Context, hospitalID int64, beds, oxygen int) {
	fixtures.hospitalRepo.On("FindByID", ctx, hospitalID).
		Return(&entity.Hospital{ID: hospitalID, Name: "City General"}, nil)
	fixtures.availabilityRepo.On("FindByHospitalID", ctx, hospitalID).
		Return(&entity.Availability{
			HospitalID:      hospitalID,
			AvailableBeds:   beds,
			AvailableOxygen: oxygen,
			LastUpdated:     time.Now(),
		}, nil)
}

func TestAvailabilityService_UpdateExistingRow(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(hospitalAdminUser(userID, 6), nil)
	fixtures.availabilityRepo.On("UpdateCounts", ctx, mock.AnythingOfType("*entity.Availability")).
		Run(func(args mock.Arguments) {
			row := args.Get(1).(*entity.Availability)
			assert.Equal(t, int64(6), row.HospitalID)
			assert.Equal(t, 12, row.AvailableBeds)
			assert.Equal(t, 3, row.AvailableOxygen)
			assert.Equal(t, userID, row.UpdatedBy)
		}).
		Return(int64(1), nil)
	expectRefresh(fixtures, ctx, 6, 12, 3)

	output, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:   "12",
		Oxygen: "3",
	})

	require.NoError(t, err)
	assert.Equal(t, 12, output.Hospital.Availability.AvailableBeds)
	assert.Equal(t, 3, output.Hospital.Availability.AvailableOxygen)
	require.NotNil(t, output.Hospital.Availability.LastUpdated)
	// The insert path must not run when the update touched a row.
	fixtures.availabilityRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestAvailabilityService_FirstWriteInserts(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(hospitalAdminUser(userID, 6), nil)
	fixtures.availabilityRepo.On("UpdateCounts", ctx, mock.Anything).Return(int64(0), nil)
	fixtures.availabilityRepo.On("Insert", ctx, mock.AnythingOfType("*entity.Availability")).Return(nil)
	expectRefresh(fixtures, ctx, 6, 5, 2)

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:   "5",
		Oxygen: "2",
	})

	require.NoError(t, err)
}

func TestAvailabilityService_LostFirstWriteRaceIsConflict(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(hospitalAdminUser(userID, 6), nil)
	fixtures.availabilityRepo.On("UpdateCounts", ctx, mock.Anything).Return(int64(0), nil)
	fixtures.availabilityRepo.On("Insert", ctx, mock.Anything).
		Return(repository.ErrDuplicateAvailability)

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:   "5",
		Oxygen: "2",
	})

	// No retry: the conflict surfaces to the caller.
	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AVAILABILITY_CONFLICT", appErr.ErrorCode())
}

func TestAvailabilityService_ValidationNamesOffendingFields(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		beds   string
		oxygen string
		want   []string
	}{
		{name: "both invalid", beds: "abc", oxygen: "-1", want: []string{"available_beds", "available_oxygen"}},
		{name: "beds invalid", beds: "", oxygen: "3", want: []string{"available_beds"}},
		{name: "oxygen invalid", beds: "3", oxygen: "2.5", want: []string{"available_oxygen"}},
		{name: "negative beds", beds: "-4", oxygen: "0", want: []string{"available_beds"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixtures.service.UpdateAvailability(ctx, uuid.New(), usecase.UpdateAvailabilityInput{
				Beds:   tt.beds,
				Oxygen: tt.oxygen,
			})

			require.Error(t, err)
			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
			for _, field := range tt.want {
				assert.Contains(t, appErr.Details(), field)
			}
		})
	}
}

func TestAvailabilityService_AdminScopingIgnoresSelection(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()
	selected := int64(42)

	// The admin manages hospital 6; the stray selection of 42 must not win.
	fixtures.userRepo.On("FindByID", ctx, userID).Return(hospitalAdminUser(userID, 6), nil)
	fixtures.availabilityRepo.On("UpdateCounts", ctx, mock.AnythingOfType("*entity.Availability")).
		Run(func(args mock.Arguments) {
			assert.Equal(t, int64(6), args.Get(1).(*entity.Availability).HospitalID)
		}).
		Return(int64(1), nil)
	expectRefresh(fixtures, ctx, 6, 1, 1)

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:               "1",
		Oxygen:             "1",
		SelectedHospitalID: &selected,
	})

	require.NoError(t, err)
}

func TestAvailabilityService_AdminWithoutLinkFallsBackToHospitalsTable(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(&entity.User{
		ID:      userID,
		Profile: &entity.Profile{UserID: userID, Role: entity.RoleHospitalAdmin},
	}, nil)
	fixtures.hospitalRepo.On("FindByAdminID", ctx, userID).
		Return(&entity.Hospital{ID: 9, Name: "City General"}, nil)
	fixtures.availabilityRepo.On("UpdateCounts", ctx, mock.AnythingOfType("*entity.Availability")).
		Run(func(args mock.Arguments) {
			assert.Equal(t, int64(9), args.Get(1).(*entity.Availability).HospitalID)
		}).
		Return(int64(1), nil)
	expectRefresh(fixtures, ctx, 9, 2, 2)

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:   "2",
		Oxygen: "2",
	})

	require.NoError(t, err)
}

func TestAvailabilityService_AdminWithoutAnyHospitalRejected(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(&entity.User{
		ID:      userID,
		Profile: &entity.Profile{UserID: userID, Role: entity.RoleHospitalAdmin},
	}, nil)
	fixtures.hospitalRepo.On("FindByAdminID", ctx, userID).
		Return(nil, repository.ErrHospitalNotFound)

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:   "2",
		Oxygen: "2",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "HOSPITAL_NOT_FOUND", appErr.ErrorCode())
}

func TestAvailabilityService_FallbackStorageFailureIsNotNotFound(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(&entity.User{
		ID:      userID,
		Profile: &entity.Profile{UserID: userID, Role: entity.RoleHospitalAdmin},
	}, nil)
	// The fallback lookup dies with a storage error, not a missing row.
	fixtures.hospitalRepo.On("FindByAdminID", ctx, userID).
		Return(nil, errors.New("connection reset"))

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:   "2",
		Oxygen: "2",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		assert.NotEqual(t, "HOSPITAL_NOT_FOUND", appErr.ErrorCode())
	}
	fixtures.availabilityRepo.AssertNotCalled(t, "UpdateCounts", mock.Anything, mock.Anything)
}

func TestAvailabilityService_PlatformAdminNeedsSelection(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(&entity.User{
		ID:      userID,
		Profile: &entity.Profile{UserID: userID, Role: entity.RoleAdmin},
	}, nil)

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:   "2",
		Oxygen: "2",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestAvailabilityService_PlatformAdminWritesSelectedHospital(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()
	selected := int64(42)

	fixtures.userRepo.On("FindByID", ctx, userID).Return(&entity.User{
		ID:      userID,
		Profile: &entity.Profile{UserID: userID, Role: entity.RoleAdmin},
	}, nil)
	fixtures.availabilityRepo.On("UpdateCounts", ctx, mock.AnythingOfType("*entity.Availability")).
		Run(func(args mock.Arguments) {
			assert.Equal(t, int64(42), args.Get(1).(*entity.Availability).HospitalID)
		}).
		Return(int64(1), nil)
	expectRefresh(fixtures, ctx, 42, 8, 4)

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:               "8",
		Oxygen:             "4",
		SelectedHospitalID: &selected,
	})

	require.NoError(t, err)
}

func TestAvailabilityService_PatientRejected(t *testing.T) {
	fixtures := createTestAvailabilityService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.userRepo.On("FindByID", ctx, userID).Return(&entity.User{
		ID:      userID,
		Profile: &entity.Profile{UserID: userID, Role: entity.RolePatient},
	}, nil)

	_, err := fixtures.service.UpdateAvailability(ctx, userID, usecase.UpdateAvailabilityInput{
		Beds:   "2",
		Oxygen: "2",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.ErrorCode())
	// The write path must never start for an unauthorized caller.
	fixtures.availabilityRepo.AssertNotCalled(t, "UpdateCounts", mock.Anything, mock.Anything)
}
