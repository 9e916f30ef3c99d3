package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"medtracker/internal/delivery/http/middleware"
	"medtracker/internal/delivery/http/response"
	"medtracker/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HospitalHandler holds dependencies for the hospital read side and the
// availability write side.
type HospitalHandler struct {
	hospitals    usecase.HospitalUsecase
	availability usecase.AvailabilityUsecase
	logger       *slog.Logger
}

// NewHospitalHandler is the constructor for HospitalHandler, injected by Fx.
func NewHospitalHandler(hospitals usecase.HospitalUsecase, availability usecase.AvailabilityUsecase, logger *slog.Logger) *HospitalHandler {
	return &HospitalHandler{
		hospitals:    hospitals,
		availability: availability,
		logger:       logger,
	}
}

// Counts arrive as strings on purpose: the usecase validates them and names
// the offending fields, mirroring what a form submission sends.
type updateAvailabilityRequest struct {
	AvailableBeds   string `json:"available_beds"`
	AvailableOxygen string `json:"available_oxygen"`
	HospitalID      *int64 `json:"hospital_id"`
}

// ListHospitals returns every hospital with its availability snapshot,
// ordered by name. Hospitals without a snapshot report zero counts and a
// null timestamp.
func (h *HospitalHandler) ListHospitals(c echo.Context) error {
	items, err := h.hospitals.ListHospitals(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toHospitalAvailabilityList(items), "Hospitals retrieved successfully")
}

// GetHospital returns one hospital with its availability snapshot.
func (h *HospitalHandler) GetHospital(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Hospital ID must be an integer")
	}

	item, err := h.hospitals.GetHospital(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toHospitalAvailabilityResponse(item), "Hospital retrieved successfully")
}

// UpdateAvailability submits new bed and oxygen counts. The target hospital
// is resolved from the caller's role: hospital administrators always write
// their own facility, platform administrators must select one, and patients
// are rejected.
func (h *HospitalHandler) UpdateAvailability(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req updateAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid availability input")
	}

	output, err := h.availability.UpdateAvailability(c.Request().Context(), userID, usecase.UpdateAvailabilityInput{
		Beds:               req.AvailableBeds,
		Oxygen:             req.AvailableOxygen,
		SelectedHospitalID: req.HospitalID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toHospitalAvailabilityResponse(output.Hospital), "Availability updated successfully")
}
