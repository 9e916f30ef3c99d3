package impl

import (
	"context"
	"log/slog"

	deliverycontext "medtracker/internal/delivery/context"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/domain/repository"
	"medtracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Logger   *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

// GetSession resolves the session view for an authenticated identity. The
// session stays authenticated even when the profile is missing; only the
// identity decides authentication, and profile problems surface separately.
func (srv *sessionService) GetSession(ctx context.Context, userID uuid.UUID) (*usecase.SessionOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("session user not found")
		}

		return nil, errors.Wrap(err, "failed to resolve session")
	}

	if user.Profile == nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).
			Warn("Authenticated user has no profile", slog.Any("userID", userID))
	}

	return &usecase.SessionOutput{
		User:            user,
		Profile:         user.Profile,
		IsAuthenticated: true,
	}, nil
}
