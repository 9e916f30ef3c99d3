// Package service provides testify mocks for the domain service interfaces.
package service

import (
	"context"
	"io"
	"testing"
	"time"

	"medtracker/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock whose expectations are asserted on cleanup.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *MockPasswordHasher) ValidatePasswordStrength(password string) error {
	return m.Called(password).Error(0)
}

// MockTokenService mocks service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock whose expectations are asserted on cleanup.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	args := m.Called(userID, roles)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) GetRefreshTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// MockAvatarStore mocks service.AvatarStore.
type MockAvatarStore struct {
	mock.Mock
}

// NewMockAvatarStore creates a mock whose expectations are asserted on cleanup.
func NewMockAvatarStore(t *testing.T) *MockAvatarStore {
	m := &MockAvatarStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAvatarStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) error {
	return m.Called(ctx, key, contentType, body).Error(0)
}

func (m *MockAvatarStore) PublicURL(key string) string {
	return m.Called(key).String(0)
}
