package handler

import (
	"log/slog"
	"net/http"

	"medtracker/internal/delivery/http/middleware"
	"medtracker/internal/delivery/http/response"
	"medtracker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler exposes the combined identity+profile view of the caller.
type SessionHandler struct {
	uc     usecase.SessionUsecase
	logger *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(uc usecase.SessionUsecase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		logger: logger,
	}
}

type sessionResponse struct {
	User            *userResponse    `json:"user"`
	Profile         *profileResponse `json:"profile"`
	IsAuthenticated bool             `json:"is_authenticated"`
}

// GetSession returns the caller's identity and profile in one round trip.
// A missing profile does not invalidate the session; the profile is simply
// null.
func (h *SessionHandler) GetSession(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	output, err := h.uc.GetSession(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	// The profile is surfaced at the top level; drop the nested copy.
	user := toUserResponse(output.User)
	if user != nil {
		user.Profile = nil
	}

	return response.Success(c, http.StatusOK, sessionResponse{
		User:            user,
		Profile:         toProfileResponse(output.Profile),
		IsAuthenticated: output.IsAuthenticated,
	}, "Session retrieved successfully")
}
