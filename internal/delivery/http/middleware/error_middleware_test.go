package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "medtracker/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newErrorContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/hospitals/99", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newTestErrorMiddleware() *ErrorMiddleware {
	return NewErrorMiddleware(slog.New(slog.DiscardHandler))
}

func TestErrorMiddleware_AppError(t *testing.T) {
	m := newTestErrorMiddleware()
	c, rec := newErrorContext()

	m.HandleHTTPError(domainerrors.ErrHospitalNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "HOSPITAL_NOT_FOUND")
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestErrorMiddleware_WrappedAppError(t *testing.T) {
	m := newTestErrorMiddleware()
	c, rec := newErrorContext()

	err := errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("invalid fields: available_beds"), "update rejected")
	m.HandleHTTPError(err, c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	assert.Contains(t, rec.Body.String(), "available_beds")
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	m := newTestErrorMiddleware()
	c, rec := newErrorContext()

	m.HandleHTTPError(echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), c)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTTP_ERROR")
}

func TestErrorMiddleware_UnknownError(t *testing.T) {
	m := newTestErrorMiddleware()
	c, rec := newErrorContext()

	m.HandleHTTPError(errors.New("database on fire"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	// Raw internal details never leak to the client.
	assert.NotContains(t, rec.Body.String(), "database on fire")
}

func TestErrorMiddleware_CommittedResponse(t *testing.T) {
	m := newTestErrorMiddleware()
	c, rec := newErrorContext()

	assert.NoError(t, c.NoContent(http.StatusOK))
	m.HandleHTTPError(errors.New("late failure"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
}
