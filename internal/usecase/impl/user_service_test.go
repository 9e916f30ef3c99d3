package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/domain/service"
	mockRepo "medtracker/internal/mocks/repository"
	mockSvc "medtracker/internal/mocks/service"
	"medtracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service          usecase.UserUsecase
	userRepo         *mockRepo.MockUserRepository
	authRepo         *mockRepo.MockAuthRepository
	hospitalRepo     *mockRepo.MockHospitalRepository
	availabilityRepo *mockRepo.MockAvailabilityRepository
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestUserService(t *testing.T) userServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	authRepo := mockRepo.NewMockAuthRepository(t)
	hospitalRepo := mockRepo.NewMockHospitalRepository(t)
	availabilityRepo := mockRepo.NewMockAvailabilityRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubFactory{
			UserRepository:         userRepo,
			AuthRepository:         authRepo,
			HospitalRepository:     hospitalRepo,
			AvailabilityRepository: availabilityRepo,
		},
	}

	service := NewUserService(UserServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		AuthRepo:     authRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})

	return userServiceFixtures{
		service:          service,
		userRepo:         userRepo,
		authRepo:         authRepo,
		hospitalRepo:     hospitalRepo,
		availabilityRepo: availabilityRepo,
		hasher:           hasher,
		tokenService:     tokenService,
	}
}

func TestUserService_RegisterPatient_Success(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	input := usecase.RegisterPatientInput{
		Name:     "Test Patient",
		Email:    "patient@example.com",
		Password: "Str0ng!Passphrase",
		Age:      34,
		Sex:      "female",
	}

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(nil, repository.ErrAuthNotFound)
	fixtures.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = uuid.New()
		}).
		Return(nil)
	fixtures.authRepo.On("CreateAuthentication", ctx, mock.AnythingOfType("*entity.Authentication")).
		Run(func(args mock.Arguments) {
			auth := args.Get(1).(*entity.Authentication)
			assert.Equal(t, "hashed_password", auth.PasswordHash)
		}).
		Return(nil)

	output, err := fixtures.service.RegisterPatient(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output.User)
	assert.Equal(t, input.Email, output.User.Email)
	require.NotNil(t, output.User.Profile)
	assert.Equal(t, entity.RolePatient, output.User.Profile.Role)
	assert.Nil(t, output.User.Profile.HospitalID)
}

func TestUserService_RegisterPatient_RejectsInvalidSex(t *testing.T) {
	fixtures := createTestUserService(t)

	_, err := fixtures.service.RegisterPatient(context.Background(), usecase.RegisterPatientInput{
		Name:     "Test Patient",
		Email:    "patient@example.com",
		Password: "Str0ng!Passphrase",
		Sex:      "unknown",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestUserService_RegisterPatient_WeakPassword(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	fixtures.hasher.On("ValidatePasswordStrength", "weak").
		Return(errors.New("password must be at least 8 characters long"))

	_, err := fixtures.service.RegisterPatient(ctx, usecase.RegisterPatientInput{
		Name:     "Test Patient",
		Email:    "patient@example.com",
		Password: "weak",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_RegisterPatient_DuplicateEmail(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	fixtures.hasher.On("ValidatePasswordStrength", mock.Anything).Return(nil)
	fixtures.hasher.On("Hash", mock.Anything).Return("hashed_password", nil)
	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "taken@example.com").
		Return(&entity.Authentication{UserID: uuid.New()}, nil)

	_, err := fixtures.service.RegisterPatient(ctx, usecase.RegisterPatientInput{
		Name:     "Test Patient",
		Email:    "taken@example.com",
		Password: "Str0ng!Passphrase",
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "USER_ALREADY_EXISTS", appErr.ErrorCode())
}

func TestUserService_RegisterHospitalAdmin_ProvisionsHospitalInOneFlow(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	input := usecase.RegisterHospitalAdminInput{
		Name:            "Admin",
		Email:           "admin@hospital.example",
		Password:        "Str0ng!Passphrase",
		HospitalName:    "City General",
		HospitalAddress: "1 Main St",
		Latitude:        48.2,
		Longitude:       16.3,
	}

	var createdUserID uuid.UUID
	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(nil, repository.ErrAuthNotFound)
	fixtures.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = uuid.New()
			createdUserID = user.ID
		}).
		Return(nil)
	fixtures.authRepo.On("CreateAuthentication", ctx, mock.AnythingOfType("*entity.Authentication")).Return(nil)
	fixtures.hospitalRepo.On("Create", ctx, mock.AnythingOfType("*entity.Hospital")).
		Run(func(args mock.Arguments) {
			hospital := args.Get(1).(*entity.Hospital)
			hospital.ID = 77
			require.NotNil(t, hospital.AdminID)
			assert.Equal(t, createdUserID, *hospital.AdminID)
			assert.Equal(t, "City General", hospital.Name)
		}).
		Return(nil)
	fixtures.userRepo.On("AssignHospital", ctx, mock.AnythingOfType("uuid.UUID"), int64(77), "City General").
		Return(nil)

	output, err := fixtures.service.RegisterHospitalAdmin(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output.User.Profile)
	assert.Equal(t, entity.RoleHospitalAdmin, output.User.Profile.Role)
	require.NotNil(t, output.User.Profile.HospitalID)
	assert.Equal(t, int64(77), *output.User.Profile.HospitalID)
	assert.Equal(t, "City General", output.User.Profile.HospitalName)
}

func TestUserService_RegisterHospitalAdmin_HospitalCreateFailureAborts(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	fixtures.hasher.On("ValidatePasswordStrength", mock.Anything).Return(nil)
	fixtures.hasher.On("Hash", mock.Anything).Return("hashed_password", nil)
	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, mock.Anything).
		Return(nil, repository.ErrAuthNotFound)
	fixtures.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = uuid.New()
		}).
		Return(nil)
	fixtures.authRepo.On("CreateAuthentication", ctx, mock.Anything).Return(nil)
	fixtures.hospitalRepo.On("Create", ctx, mock.AnythingOfType("*entity.Hospital")).
		Return(errors.New("insert failed"))

	_, err := fixtures.service.RegisterHospitalAdmin(ctx, usecase.RegisterHospitalAdminInput{
		Name:         "Admin",
		Email:        "admin@hospital.example",
		Password:     "Str0ng!Passphrase",
		HospitalName: "City General",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create hospital")
}

func TestUserService_Login_Success(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "patient@example.com").
		Return(&entity.Authentication{UserID: userID, PasswordHash: "stored_hash"}, nil)
	fixtures.hasher.On("Check", "Str0ng!Passphrase", "stored_hash").Return(true)
	fixtures.userRepo.On("FindByID", ctx, userID).
		Return(&entity.User{
			ID:      userID,
			Email:   "patient@example.com",
			Profile: &entity.Profile{UserID: userID, Role: entity.RolePatient},
		}, nil)
	fixtures.tokenService.On("GenerateTokens", userID, []string{entity.RolePatient.String()}).
		Return("access-token", "refresh-token", nil)
	fixtures.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.authRepo.On("CreateRefreshToken", ctx, mock.AnythingOfType("*entity.RefreshToken")).
		Run(func(args mock.Arguments) {
			token := args.Get(1).(*entity.RefreshToken)
			// Only the digest is persisted, never the raw token.
			assert.NotEqual(t, "refresh-token", token.TokenHash)
			assert.Len(t, token.TokenHash, 64)
		}).
		Return(nil)

	output, err := fixtures.service.Login(ctx, usecase.LoginInput{
		Email:    "patient@example.com",
		Password: "Str0ng!Passphrase",
	})

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-token", output.RefreshToken)
	assert.Equal(t, userID, output.User.ID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "patient@example.com").
		Return(&entity.Authentication{UserID: uuid.New(), PasswordHash: "stored_hash"}, nil)
	fixtures.hasher.On("Check", "wrong", "stored_hash").Return(false)

	_, err := fixtures.service.Login(ctx, usecase.LoginInput{
		Email:    "patient@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "nobody@example.com").
		Return(nil, repository.ErrAuthNotFound)

	_, err := fixtures.service.Login(ctx, usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_RefreshToken_Success(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.tokenService.On("ValidateRefreshToken", "refresh-token").
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	fixtures.authRepo.On("FindRefreshTokenByHash", ctx, hashToken("refresh-token")).
		Return(&entity.RefreshToken{UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}, nil)
	fixtures.userRepo.On("FindByID", ctx, userID).
		Return(&entity.User{
			ID:      userID,
			Profile: &entity.Profile{UserID: userID, Role: entity.RoleHospitalAdmin},
		}, nil)
	fixtures.tokenService.On("GenerateTokens", userID, []string{entity.RoleHospitalAdmin.String()}).
		Return("new-access-token", "unused-refresh", nil)

	output, err := fixtures.service.RefreshToken(ctx, usecase.RefreshTokenInput{RefreshToken: "refresh-token"})

	require.NoError(t, err)
	assert.Equal(t, "new-access-token", output.AccessToken)
}

func TestUserService_RefreshToken_UnknownHash(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	fixtures.tokenService.On("ValidateRefreshToken", "refresh-token").
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	fixtures.authRepo.On("FindRefreshTokenByHash", ctx, hashToken("refresh-token")).
		Return(nil, repository.ErrRefreshTokenNotFound)

	_, err := fixtures.service.RefreshToken(ctx, usecase.RefreshTokenInput{RefreshToken: "refresh-token"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestUserService_Logout_DeletesStoredHash(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	fixtures.tokenService.On("ValidateRefreshToken", "refresh-token").
		Return(nil, errors.New("expired"))
	fixtures.authRepo.On("DeleteRefreshTokenByHash", ctx, hashToken("refresh-token")).Return(nil)

	// An expired token still logs out; deletion is keyed by hash alone.
	err := fixtures.service.Logout(ctx, usecase.LogoutInput{RefreshToken: "refresh-token"})
	require.NoError(t, err)
}
