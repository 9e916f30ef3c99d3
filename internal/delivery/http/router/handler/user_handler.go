// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"medtracker/internal/delivery/http/response"
	"medtracker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for account and session handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

type registerPatientRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Age         int    `json:"age" validate:"gte=0"`
	Sex         string `json:"sex" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type registerHospitalAdminRequest struct {
	Name            string  `json:"name" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required"`
	PhoneNumber     string  `json:"phone_number"`
	HospitalName    string  `json:"hospital_name" validate:"required"`
	HospitalAddress string  `json:"hospital_address"`
	HospitalPhone   string  `json:"hospital_phone"`
	Latitude        float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude       float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type loginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *userResponse `json:"user"`
}

// RegisterPatient handles the patient sign-up request.
func (h *UserHandler) RegisterPatient(c echo.Context) error {
	var req registerPatientRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.RegisterPatient(c.Request().Context(), usecase.RegisterPatientInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Age:         req.Age,
		Sex:         req.Sex,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(output.User), "Patient registered successfully")
}

// RegisterHospitalAdmin handles the hospital administrator sign-up request.
// A new hospital is provisioned and linked in the same transaction.
func (h *UserHandler) RegisterHospitalAdmin(c echo.Context) error {
	var req registerHospitalAdminRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.RegisterHospitalAdmin(c.Request().Context(), usecase.RegisterHospitalAdminInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PhoneNumber:     req.PhoneNumber,
		HospitalName:    req.HospitalName,
		HospitalAddress: req.HospitalAddress,
		HospitalPhone:   req.HospitalPhone,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(output.User), "Hospital administrator registered successfully")
}

// Login handles the user login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         toUserResponse(output.User),
	}, "Login successful")
}

// RefreshToken handles the token refresh request.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.RefreshToken(c.Request().Context(), usecase.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"access_token": output.AccessToken}, "Token refreshed successfully")
}

// Logout handles the user logout request. The refresh token is revoked;
// an unknown or already revoked token still yields a successful response.
func (h *UserHandler) Logout(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Logout(c.Request().Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
