package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	deliverycontext "medtracker/internal/delivery/context"
	"medtracker/internal/delivery/http/response"
	domainerrors "medtracker/internal/domain/errors"
	"medtracker/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	// Domain errors carry their own HTTP status and business error code.
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed",
				slog.String("error", err.Error()),
				slog.String("path", c.Request().URL.Path),
				slog.String("method", c.Request().Method),
			)
		}

		if jsonErr := response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details()); jsonErr != nil {
			logger.Error("Failed to write error response", slog.String("error", jsonErr.Error()))
		}

		return
	}

	// Echo's own errors (404, 405, binding failures).
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := fmt.Sprintf("%v", httpErr.Message)
		if jsonErr := response.Error(c, httpErr.Code, "HTTP_ERROR", message, message); jsonErr != nil {
			logger.Error("Failed to write error response", slog.String("error", jsonErr.Error()))
		}

		return
	}

	// Anything else is an unclassified internal failure.
	logger.Error("Unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	if jsonErr := response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", ""); jsonErr != nil {
		logger.Error("Failed to write error response", slog.String("error", jsonErr.Error()))
	}
}
