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

// ProfileHandler holds dependencies for profile handlers.
type ProfileHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		uc:     uc,
		logger: logger,
	}
}

type updateProfileRequest struct {
	Name         *string `json:"name"`
	Age          *int    `json:"age"`
	Sex          *string `json:"sex"`
	PhoneNumber  *string `json:"phone_number"`
	HospitalName *string `json:"hospital_name"`
	Address      *string `json:"address"`
	AvatarURL    *string `json:"avatar_url"`
}

// GetProfile returns the caller's profile. A missing profile is an error,
// not an empty default.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProfileResponse(profile), "Profile retrieved successfully")
}

// UpdateProfile applies a partial update to the caller's profile. Absent
// fields are left untouched.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	profile, err := h.uc.UpdateProfile(c.Request().Context(), userID, &usecase.UpdateProfileInput{
		Name:         req.Name,
		Age:          req.Age,
		Sex:          req.Sex,
		PhoneNumber:  req.PhoneNumber,
		HospitalName: req.HospitalName,
		Address:      req.Address,
		AvatarURL:    req.AvatarURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProfileResponse(profile), "Profile updated successfully")
}

// UploadAvatar accepts a multipart image upload and replaces the caller's
// profile photo.
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Multipart field 'avatar' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded avatar")
	}
	defer file.Close()

	profile, err := h.uc.UploadAvatar(c.Request().Context(), userID, &usecase.UploadAvatarInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProfileResponse(profile), "Profile photo updated successfully")
}

// RemoveAvatar clears the caller's profile photo.
func (h *ProfileHandler) RemoveAvatar(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	profile, err := h.uc.RemoveAvatar(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProfileResponse(profile), "Profile photo removed successfully")
}
