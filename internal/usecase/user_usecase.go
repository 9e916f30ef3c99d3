// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"medtracker/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterPatientInput defines the data required to register a new patient.
type RegisterPatientInput struct {
	Name        string
	Email       string
	Password    string
	Age         int
	Sex         string
	PhoneNumber string
	Address     string
}

// RegisterHospitalAdminInput defines the data required to register a new
// hospital administrator. A new hospital is provisioned in the same
// transaction and linked to the administrator's profile.
type RegisterHospitalAdminInput struct {
	Name            string
	Email           string
	Password        string
	PhoneNumber     string
	HospitalName    string
	HospitalAddress string
	HospitalPhone   string
	Latitude        float64
	Longitude       float64
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshTokenInput defines the data required to refresh an access token.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput defines the data required to end a session.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns a fresh access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// UserUsecase defines the interface for account and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterPatient(ctx context.Context, input RegisterPatientInput) (*RegisterOutput, error)
	RegisterHospitalAdmin(ctx context.Context, input RegisterHospitalAdminInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input LogoutInput) error
}
