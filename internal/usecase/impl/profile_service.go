package impl

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	deliverycontext "medtracker/internal/delivery/context"
	"medtracker/internal/domain/entity"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/domain/service"
	"medtracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5 MB

// profileService implements the ProfileUsecase interface.
type profileService struct {
	userRepo     repository.UserRepository
	hospitalRepo repository.HospitalRepository
	avatarStore  service.AvatarStore
	logger       *slog.Logger
}

// ProfileServiceParams holds dependencies for profileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	HospitalRepo repository.HospitalRepository
	AvatarStore  service.AvatarStore
	Logger       *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		userRepo:     params.UserRepo,
		hospitalRepo: params.HospitalRepo,
		avatarStore:  params.AvatarStore,
		logger:       params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the caller's profile. A missing profile is an error the
// caller has to see; provisioning failures must surface, not hide behind a
// synthesized default.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := srv.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	srv.backfillHospitalName(ctx, profile)

	return profile, nil
}

// backfillHospitalName repairs the denormalized hospital name of an admin
// profile from the hospitals table. Best effort: a failed lookup leaves the
// profile as-is, a failed write still returns the repaired value.
func (srv *profileService) backfillHospitalName(ctx context.Context, profile *entity.Profile) {
	if profile.Role != entity.RoleHospitalAdmin || profile.HospitalName != "" {
		return
	}

	hospital, err := srv.hospitalRepo.FindByAdminID(ctx, profile.UserID)
	if err != nil {
		srv.log(ctx).Warn("Failed to backfill hospital name", slog.Any("userID", profile.UserID), slog.Any("error", err))

		return
	}

	profile.HospitalName = hospital.Name
	if err := srv.userRepo.UpdateProfile(ctx, profile); err != nil {
		srv.log(ctx).Warn("Failed to persist backfilled hospital name", slog.Any("userID", profile.UserID), slog.Any("error", err))
	}
}

// UpdateProfile applies the non-nil input fields and persists the result.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	profile, err := srv.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Age != nil {
		if *input.Age < 0 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("age must not be negative")
		}
		profile.Age = *input.Age
	}
	if input.Sex != nil {
		sex := entity.Sex(*input.Sex)
		if !sex.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("sex must be male, female or other")
		}
		profile.Sex = sex
	}
	if input.PhoneNumber != nil {
		profile.PhoneNumber = *input.PhoneNumber
	}
	if input.Address != nil {
		profile.Address = *input.Address
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	// The cached hospital name of an admin mirrors the hospitals table and
	// is not caller-writable.
	if input.HospitalName != nil && profile.Role != entity.RoleHospitalAdmin {
		profile.HospitalName = *input.HospitalName
	}

	if err := srv.userRepo.UpdateProfile(ctx, profile); err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrProfileUpdateFailed, "failed to update profile")
	}

	return profile, nil
}

// UploadAvatar validates and stores a new profile photo, then records its
// public URL on the profile.
func (srv *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, input *usecase.UploadAvatarInput) (*entity.Profile, error) {
	if !strings.HasPrefix(input.ContentType, "image/") {
		return nil, domainerrors.ErrAvatarInvalid.WrapMessage("avatar must be an image")
	}
	if input.Size > maxAvatarSize {
		return nil, domainerrors.ErrAvatarInvalid.WrapMessage("avatar must not exceed 5MB")
	}

	profile, err := srv.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := avatarKey(userID, input.FileName, time.Now())
	if err := srv.avatarStore.Upload(ctx, key, input.ContentType, input.Content); err != nil {
		srv.log(ctx).Error("Failed to upload avatar", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to upload avatar")
	}

	profile.AvatarURL = srv.avatarStore.PublicURL(key)
	if err := srv.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, errors.Wrap(domainerrors.ErrProfileUpdateFailed, "failed to record avatar url")
	}

	srv.log(ctx).Debug("Avatar uploaded", slog.Any("userID", userID), slog.String("key", key))

	return profile, nil
}

// RemoveAvatar clears the profile photo URL. The stored object is left in
// place; keys are timestamped, so the next upload never collides with it.
func (srv *profileService) RemoveAvatar(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := srv.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.AvatarURL = ""
	if err := srv.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, errors.Wrap(domainerrors.ErrProfileUpdateFailed, "failed to clear avatar url")
	}

	return profile, nil
}

func (srv *profileService) loadProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user not found")
		}

		return nil, errors.Wrap(err, "failed to load user")
	}
	if user.Profile == nil {
		srv.log(ctx).Warn("User has no profile", slog.Any("userID", userID))

		return nil, domainerrors.ErrProfileNotFound.WrapMessage("profile missing for this account")
	}

	return user.Profile, nil
}

// avatarKey builds the object key for an uploaded photo: owner id plus epoch
// milliseconds, keeping the original file extension.
func avatarKey(userID uuid.UUID, fileName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(fileName))

	return fmt.Sprintf("%s-%d%s", userID, now.UnixMilli(), ext)
}
