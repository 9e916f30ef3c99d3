// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"medtracker/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionOutput describes the caller's current session. IsAuthenticated
// depends only on the presence of an identity; a missing profile does not
// demote the session to anonymous.
type SessionOutput struct {
	User            *entity.User
	Profile         *entity.Profile
	IsAuthenticated bool
}

// SessionUsecase resolves the current session for an authenticated identity.
type SessionUsecase interface {
	GetSession(ctx context.Context, userID uuid.UUID) (*SessionOutput, error)
}
