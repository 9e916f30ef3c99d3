// Package usecase provides testify mocks for the usecase interfaces.
package usecase

import (
	"context"
	"testing"

	"medtracker/internal/domain/entity"
	"medtracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserUsecase mocks usecase.UserUsecase.
type MockUserUsecase struct {
	mock.Mock
}

// NewMockUserUsecase creates a mock whose expectations are asserted on cleanup.
func NewMockUserUsecase(t *testing.T) *MockUserUsecase {
	m := &MockUserUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserUsecase) RegisterPatient(ctx context.Context, input usecase.RegisterPatientInput) (*usecase.RegisterOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.RegisterOutput), args.Error(1)
}

func (m *MockUserUsecase) RegisterHospitalAdmin(ctx context.Context, input usecase.RegisterHospitalAdminInput) (*usecase.RegisterOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.RegisterOutput), args.Error(1)
}

func (m *MockUserUsecase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

func (m *MockUserUsecase) RefreshToken(ctx context.Context, input usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.RefreshTokenOutput), args.Error(1)
}

func (m *MockUserUsecase) Logout(ctx context.Context, input usecase.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

// MockProfileUsecase mocks usecase.ProfileUsecase.
type MockProfileUsecase struct {
	mock.Mock
}

// NewMockProfileUsecase creates a mock whose expectations are asserted on cleanup.
func NewMockProfileUsecase(t *testing.T) *MockProfileUsecase {
	m := &MockProfileUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProfileUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileUsecase) UploadAvatar(ctx context.Context, userID uuid.UUID, input *usecase.UploadAvatarInput) (*entity.Profile, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileUsecase) RemoveAvatar(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Profile), args.Error(1)
}

// MockHospitalUsecase mocks usecase.HospitalUsecase.
type MockHospitalUsecase struct {
	mock.Mock
}

// NewMockHospitalUsecase creates a mock whose expectations are asserted on cleanup.
func NewMockHospitalUsecase(t *testing.T) *MockHospitalUsecase {
	m := &MockHospitalUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockHospitalUsecase) ListHospitals(ctx context.Context) ([]*entity.HospitalAvailability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.HospitalAvailability), args.Error(1)
}

func (m *MockHospitalUsecase) GetHospital(ctx context.Context, id int64) (*entity.HospitalAvailability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.HospitalAvailability), args.Error(1)
}

// MockAvailabilityUsecase mocks usecase.AvailabilityUsecase.
type MockAvailabilityUsecase struct {
	mock.Mock
}

// NewMockAvailabilityUsecase creates a mock whose expectations are asserted on cleanup.
func NewMockAvailabilityUsecase(t *testing.T) *MockAvailabilityUsecase {
	m := &MockAvailabilityUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAvailabilityUsecase) UpdateAvailability(ctx context.Context, userID uuid.UUID, input usecase.UpdateAvailabilityInput) (*usecase.UpdateAvailabilityOutput, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.UpdateAvailabilityOutput), args.Error(1)
}

// MockSessionUsecase mocks usecase.SessionUsecase.
type MockSessionUsecase struct {
	mock.Mock
}

// NewMockSessionUsecase creates a mock whose expectations are asserted on cleanup.
func NewMockSessionUsecase(t *testing.T) *MockSessionUsecase {
	m := &MockSessionUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSessionUsecase) GetSession(ctx context.Context, userID uuid.UUID) (*usecase.SessionOutput, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.SessionOutput), args.Error(1)
}
