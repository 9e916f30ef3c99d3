package postgres

import (
	"context"
	"time"

	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// authRepository implements the domain's AuthRepository interface using GORM.
type authRepository struct {
	db *gorm.DB
}

// NewAuthRepository is the constructor for authRepository.
func NewAuthRepository(db *gorm.DB) repository.AuthRepository {
	return &authRepository{db: db}
}

// CreateAuthentication persists a new credential record.
func (repo *authRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	authM := &model.AuthenticationModel{
		ID:             auth.ID,
		UserID:         auth.UserID,
		Provider:       auth.Provider,
		ProviderUserID: auth.ProviderUserID,
		PasswordHash:   auth.PasswordHash,
	}

	if err := repo.db.WithContext(ctx).Create(authM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("credential already registered")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create authentication")
	}

	auth.ID = authM.ID
	auth.CreatedAt = authM.CreatedAt

	return nil
}

// FindAuthentication retrieves a credential by provider and provider-scoped id.
func (repo *authRepository) FindAuthentication(ctx context.Context, provider string, providerUserID string) (*entity.Authentication, error) {
	var authM model.AuthenticationModel
	err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&authM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAuthNotFound
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	return &entity.Authentication{
		ID:             authM.ID,
		UserID:         authM.UserID,
		Provider:       authM.Provider,
		ProviderUserID: authM.ProviderUserID,
		PasswordHash:   authM.PasswordHash,
		CreatedAt:      authM.CreatedAt,
	}, nil
}

// CreateRefreshToken persists a new session record.
func (repo *authRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := &model.RefreshTokenModel{
		ID:        token.ID,
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
	}

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindRefreshTokenByHash retrieves a session record by its stored hash.
// Expired records exist until replaced or deleted; the caller gets
// ErrRefreshTokenExpired so it can distinguish expiry from absence.
func (repo *authRepository) FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("token_hash = ?", hash).
		First(&tokenM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	if tokenM.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrRefreshTokenExpired
	}

	return &entity.RefreshToken{
		ID:        tokenM.ID,
		UserID:    tokenM.UserID,
		TokenHash: tokenM.TokenHash,
		ExpiresAt: tokenM.ExpiresAt,
		CreatedAt: tokenM.CreatedAt,
	}, nil
}

// DeleteRefreshTokenByHash ends a session. Deleting an absent hash is not an
// error; logout is idempotent.
func (repo *authRepository) DeleteRefreshTokenByHash(ctx context.Context, hash string) error {
	err := repo.db.WithContext(ctx).
		Where("token_hash = ?", hash).
		Delete(&model.RefreshTokenModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete refresh token")
	}

	return nil
}
