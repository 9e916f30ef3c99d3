package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medtracker/internal/delivery/http/validator"
	"medtracker/internal/domain/entity"
	mockusecase "medtracker/internal/mocks/usecase"
	"medtracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestUserHandler_RegisterPatient_Success(t *testing.T) {
	uc := mockusecase.NewMockUserUsecase(t)
	h := NewUserHandler(uc, discardLogger())

	userID := uuid.New()
	uc.On("RegisterPatient", mock.Anything, usecase.RegisterPatientInput{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "Str0ng!pass",
		Age:      34,
		Sex:      "female",
	}).Return(&usecase.RegisterOutput{User: &entity.User{
		ID:    userID,
		Email: "asha@example.com",
		Profile: &entity.Profile{
			UserID: userID,
			Name:   "Asha Rao",
			Role:   entity.RolePatient,
		},
	}}, nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/auth/register/patient",
		`{"name":"Asha Rao","email":"asha@example.com","password":"Str0ng!pass","age":34,"sex":"female"}`)

	require.NoError(t, h.RegisterPatient(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "asha@example.com")
	assert.Contains(t, rec.Body.String(), `"role":"patient"`)
	assert.NotContains(t, rec.Body.String(), "Str0ng!pass")
}

func TestUserHandler_RegisterPatient_MissingEmail(t *testing.T) {
	uc := mockusecase.NewMockUserUsecase(t)
	h := NewUserHandler(uc, discardLogger())

	c, _ := newJSONContext(newTestEcho(), http.MethodPost, "/auth/register/patient",
		`{"name":"No Email","password":"Str0ng!pass","sex":"other"}`)

	err := h.RegisterPatient(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	uc.AssertNotCalled(t, "RegisterPatient", mock.Anything, mock.Anything)
}

func TestUserHandler_RegisterHospitalAdmin_RequiresHospitalName(t *testing.T) {
	uc := mockusecase.NewMockUserUsecase(t)
	h := NewUserHandler(uc, discardLogger())

	c, _ := newJSONContext(newTestEcho(), http.MethodPost, "/auth/register/hospital-admin",
		`{"name":"Dr Admin","email":"admin@example.com","password":"Str0ng!pass"}`)

	err := h.RegisterHospitalAdmin(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUserHandler_Login_Success(t *testing.T) {
	uc := mockusecase.NewMockUserUsecase(t)
	h := NewUserHandler(uc, discardLogger())

	uc.On("Login", mock.Anything, usecase.LoginInput{
		Email:    "asha@example.com",
		Password: "Str0ng!pass",
	}).Return(&usecase.LoginOutput{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &entity.User{ID: uuid.New(), Email: "asha@example.com"},
	}, nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/auth/login",
		`{"email":"asha@example.com","password":"Str0ng!pass"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"access-token"`)
	assert.Contains(t, rec.Body.String(), `"refresh_token":"refresh-token"`)
}

func TestUserHandler_Login_UsecaseErrorPropagates(t *testing.T) {
	uc := mockusecase.NewMockUserUsecase(t)
	h := NewUserHandler(uc, discardLogger())

	uc.On("Login", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	c, _ := newJSONContext(newTestEcho(), http.MethodPost, "/auth/login",
		`{"email":"asha@example.com","password":"wrong"}`)

	err := h.Login(c)
	require.ErrorIs(t, err, assert.AnError)
}

func TestUserHandler_Logout_Success(t *testing.T) {
	uc := mockusecase.NewMockUserUsecase(t)
	h := NewUserHandler(uc, discardLogger())

	uc.On("Logout", mock.Anything, usecase.LogoutInput{RefreshToken: "refresh-token"}).Return(nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/auth/logout",
		`{"refresh_token":"refresh-token"}`)

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/health", "")

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
