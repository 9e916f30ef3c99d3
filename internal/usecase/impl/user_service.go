// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	deliverycontext "medtracker/internal/delivery/context"
	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/domain/service"
	"medtracker/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	authRepo     repository.AuthRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	AuthRepo     repository.AuthRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		authRepo:     params.AuthRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// hashToken produces the SHA-256 hex digest stored instead of the raw
// refresh token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// RegisterPatient creates a patient identity with its profile and credential
// in a single transaction.
func (srv *userService) RegisterPatient(ctx context.Context, input usecase.RegisterPatientInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting patient registration", slog.String("email", input.Email))

	sex := entity.Sex(input.Sex)
	if input.Sex != "" && !sex.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("sex must be male, female or other")
	}
	if input.Age < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("age must not be negative")
	}

	newUser := &entity.User{
		Email: input.Email,
		Profile: &entity.Profile{
			Name:        input.Name,
			Age:         input.Age,
			Sex:         sex,
			Role:        entity.RolePatient,
			PhoneNumber: input.PhoneNumber,
			Address:     input.Address,
		},
	}

	if err := srv.executeRegistration(ctx, input.Email, input.Password, newUser, nil); err != nil {
		srv.log(ctx).Error("Patient registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Patient registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// RegisterHospitalAdmin creates the administrator identity, its profile, the
// managed hospital and the link between them in one transaction. Either
// everything is provisioned or nothing is; a half-provisioned administrator
// without a hospital must not exist.
func (srv *userService) RegisterHospitalAdmin(ctx context.Context, input usecase.RegisterHospitalAdminInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting hospital admin registration", slog.String("email", input.Email), slog.String("hospital", input.HospitalName))

	if input.HospitalName == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("hospital name is required")
	}

	newUser := &entity.User{
		Email: input.Email,
		Profile: &entity.Profile{
			Name:         input.Name,
			Role:         entity.RoleHospitalAdmin,
			PhoneNumber:  input.PhoneNumber,
			HospitalName: input.HospitalName,
		},
	}

	provisionHospital := func(repoFactory repository.RepositoryFactory) error {
		hospital := &entity.Hospital{
			Name:        input.HospitalName,
			Address:     input.HospitalAddress,
			PhoneNumber: input.HospitalPhone,
			Latitude:    input.Latitude,
			Longitude:   input.Longitude,
			AdminID:     &newUser.ID,
		}
		if err := repoFactory.HospitalRepo().Create(ctx, hospital); err != nil {
			return errors.Wrap(err, "failed to create hospital during registration")
		}

		if err := repoFactory.UserRepo().AssignHospital(ctx, newUser.ID, hospital.ID, hospital.Name); err != nil {
			return errors.Wrap(err, "failed to link hospital to admin profile")
		}
		newUser.Profile.HospitalID = &hospital.ID

		return nil
	}

	if err := srv.executeRegistration(ctx, input.Email, input.Password, newUser, provisionHospital); err != nil {
		srv.log(ctx).Error("Hospital admin registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Hospital admin registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// executeRegistration runs the shared part of both registration flows inside
// one transaction: password policy, identity + profile, credential, and the
// optional role-specific provisioning step.
func (srv *userService) executeRegistration(
	ctx context.Context,
	email string,
	password string,
	newUser *entity.User,
	provision func(repository.RepositoryFactory) error,
) error {
	if err := srv.hasher.ValidatePasswordStrength(password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", email), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrValidationFailed, "password does not meet security requirements")
	}

	hashedPassword, err := srv.hasher.Hash(password)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		_, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to find authentication")
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: email,
			PasswordHash:   hashedPassword,
		}
		if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
			return errors.Wrap(err, "failed to create authentication during registration")
		}

		if provision != nil {
			return provision(repoFactory)
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute registration transaction")
	}

	return nil
}

// Login verifies credentials and issues a new token pair.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	authRecord, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	// bcrypt is CPU-bound; check outside any transaction.
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	loggedInUser, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load login user")
	}

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(loggedInUser.ID, extractRoles(loggedInUser).ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	newRefreshToken := &entity.RefreshToken{
		UserID:    loggedInUser.ID,
		TokenHash: hashToken(refreshTokenString),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.authRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token during login")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", loggedInUser.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         loggedInUser,
	}, nil
}

// RefreshToken issues a new access token against a valid refresh token. The
// refresh token itself stays unchanged.
func (srv *userService) RefreshToken(ctx context.Context, input usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Debug("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}

	if _, err := srv.authRepo.FindRefreshTokenByHash(ctx, hashToken(input.RefreshToken)); err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found or expired")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user for token refresh")
	}

	newAccessToken, _, err := srv.tokenService.GenerateTokens(user.ID, extractRoles(user).ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: newAccessToken}, nil
}

// Logout ends a session by deleting its refresh token. An invalid token is
// still deleted from storage; logout never fails on validation.
func (srv *userService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	srv.log(ctx).Debug("Attempting to log out")

	if _, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	if err := srv.authRepo.DeleteRefreshTokenByHash(ctx, hashToken(input.RefreshToken)); err != nil {
		return errors.Wrap(err, "failed to delete refresh token")
	}

	srv.log(ctx).Debug("Successfully logged out")

	return nil
}

// extractRoles derives the role claim set from a user's profile.
func extractRoles(user *entity.User) entity.Roles {
	if user == nil || user.Profile == nil {
		return nil
	}

	return entity.Roles{user.Profile.Role}
}
