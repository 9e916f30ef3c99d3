// Package repository provides testify mocks for the persistence interfaces.
package repository

import (
	"context"
	"testing"

	"medtracker/internal/domain/entity"
	"medtracker/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock whose expectations are asserted on cleanup.
func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, profile *entity.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockUserRepository) AssignHospital(ctx context.Context, userID uuid.UUID, hospitalID int64, hospitalName string) error {
	return m.Called(ctx, userID, hospitalID, hospitalName).Error(0)
}

// MockAuthRepository mocks repository.AuthRepository.
type MockAuthRepository struct {
	mock.Mock
}

// NewMockAuthRepository creates a mock whose expectations are asserted on cleanup.
func NewMockAuthRepository(t *testing.T) *MockAuthRepository {
	m := &MockAuthRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuthRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

func (m *MockAuthRepository) FindAuthentication(ctx context.Context, provider string, providerUserID string) (*entity.Authentication, error) {
	args := m.Called(ctx, provider, providerUserID)
	auth, _ := args.Get(0).(*entity.Authentication)

	return auth, args.Error(1)
}

func (m *MockAuthRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthRepository) FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, hash)
	token, _ := args.Get(0).(*entity.RefreshToken)

	return token, args.Error(1)
}

func (m *MockAuthRepository) DeleteRefreshTokenByHash(ctx context.Context, hash string) error {
	return m.Called(ctx, hash).Error(0)
}

// MockHospitalRepository mocks repository.HospitalRepository.
type MockHospitalRepository struct {
	mock.Mock
}

// NewMockHospitalRepository creates a mock whose expectations are asserted on cleanup.
func NewMockHospitalRepository(t *testing.T) *MockHospitalRepository {
	m := &MockHospitalRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockHospitalRepository) ListWithAvailability(ctx context.Context) ([]*entity.Hospital, map[int64][]*entity.Availability, error) {
	args := m.Called(ctx)
	hospitals, _ := args.Get(0).([]*entity.Hospital)
	availability, _ := args.Get(1).(map[int64][]*entity.Availability)

	return hospitals, availability, args.Error(2)
}

func (m *MockHospitalRepository) List(ctx context.Context) ([]*entity.Hospital, error) {
	args := m.Called(ctx)
	hospitals, _ := args.Get(0).([]*entity.Hospital)

	return hospitals, args.Error(1)
}

func (m *MockHospitalRepository) FindByID(ctx context.Context, id int64) (*entity.Hospital, error) {
	args := m.Called(ctx, id)
	hospital, _ := args.Get(0).(*entity.Hospital)

	return hospital, args.Error(1)
}

func (m *MockHospitalRepository) FindByAdminID(ctx context.Context, adminID uuid.UUID) (*entity.Hospital, error) {
	args := m.Called(ctx, adminID)
	hospital, _ := args.Get(0).(*entity.Hospital)

	return hospital, args.Error(1)
}

func (m *MockHospitalRepository) Create(ctx context.Context, hospital *entity.Hospital) error {
	return m.Called(ctx, hospital).Error(0)
}

// MockAvailabilityRepository mocks repository.AvailabilityRepository.
type MockAvailabilityRepository struct {
	mock.Mock
}

// NewMockAvailabilityRepository creates a mock whose expectations are asserted on cleanup.
func NewMockAvailabilityRepository(t *testing.T) *MockAvailabilityRepository {
	m := &MockAvailabilityRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAvailabilityRepository) UpdateCounts(ctx context.Context, row *entity.Availability) (int64, error) {
	args := m.Called(ctx, row)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAvailabilityRepository) Insert(ctx context.Context, row *entity.Availability) error {
	return m.Called(ctx, row).Error(0)
}

func (m *MockAvailabilityRepository) FindByHospitalID(ctx context.Context, hospitalID int64) (*entity.Availability, error) {
	args := m.Called(ctx, hospitalID)
	row, _ := args.Get(0).(*entity.Availability)

	return row, args.Error(1)
}

func (m *MockAvailabilityRepository) ListAll(ctx context.Context) ([]*entity.Availability, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]*entity.Availability)

	return rows, args.Error(1)
}

// StubFactory is a RepositoryFactory handing out fixed repositories, used
// together with StubTransactionManager to run use-case transactions inline.
type StubFactory struct {
	UserRepository         repository.UserRepository
	AuthRepository         repository.AuthRepository
	HospitalRepository     repository.HospitalRepository
	AvailabilityRepository repository.AvailabilityRepository
}

func (f *StubFactory) UserRepo() repository.UserRepository { return f.UserRepository }

func (f *StubFactory) AuthRepo() repository.AuthRepository { return f.AuthRepository }

func (f *StubFactory) HospitalRepo() repository.HospitalRepository { return f.HospitalRepository }

func (f *StubFactory) AvailabilityRepo() repository.AvailabilityRepository {
	return f.AvailabilityRepository
}

// StubTransactionManager executes the callback immediately against the
// embedded factory, with no real transaction semantics.
type StubTransactionManager struct {
	Factory *StubFactory
}

func (tm *StubTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(tm.Factory)
}
