package handler

import (
	"time"

	"medtracker/internal/domain/entity"

	"github.com/google/uuid"
)

// Response DTOs decouple the JSON surface from the domain entities so the
// wire format stays stable when the entities grow fields.

type userResponse struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Profile   *profileResponse `json:"profile,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type profileResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Sex          string    `json:"sex"`
	Role         string    `json:"role"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	HospitalID   *int64    `json:"hospital_id,omitempty"`
	HospitalName string    `json:"hospital_name,omitempty"`
	Address      string    `json:"address,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type hospitalResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phone_number,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type availabilityResponse struct {
	AvailableBeds   int        `json:"available_beds"`
	AvailableOxygen int        `json:"available_oxygen"`
	LastUpdated     *time.Time `json:"last_updated"`
}

type hospitalAvailabilityResponse struct {
	hospitalResponse
	Availability availabilityResponse `json:"availability"`
}

func toUserResponse(user *entity.User) *userResponse {
	if user == nil {
		return nil
	}

	return &userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Profile:   toProfileResponse(user.Profile),
		CreatedAt: user.CreatedAt,
	}
}

func toProfileResponse(profile *entity.Profile) *profileResponse {
	if profile == nil {
		return nil
	}

	return &profileResponse{
		UserID:       profile.UserID,
		Name:         profile.Name,
		Age:          profile.Age,
		Sex:          profile.Sex.String(),
		Role:         profile.Role.String(),
		PhoneNumber:  profile.PhoneNumber,
		HospitalID:   profile.HospitalID,
		HospitalName: profile.HospitalName,
		Address:      profile.Address,
		AvatarURL:    profile.AvatarURL,
		UpdatedAt:    profile.UpdatedAt,
	}
}

func toHospitalAvailabilityResponse(item *entity.HospitalAvailability) *hospitalAvailabilityResponse {
	if item == nil || item.Hospital == nil {
		return nil
	}

	return &hospitalAvailabilityResponse{
		hospitalResponse: hospitalResponse{
			ID:          item.Hospital.ID,
			Name:        item.Hospital.Name,
			Address:     item.Hospital.Address,
			PhoneNumber: item.Hospital.PhoneNumber,
			Latitude:    item.Hospital.Latitude,
			Longitude:   item.Hospital.Longitude,
		},
		Availability: availabilityResponse{
			AvailableBeds:   item.Availability.AvailableBeds,
			AvailableOxygen: item.Availability.AvailableOxygen,
			LastUpdated:     item.Availability.LastUpdated,
		},
	}
}

func toHospitalAvailabilityList(items []*entity.HospitalAvailability) []*hospitalAvailabilityResponse {
	out := make([]*hospitalAvailabilityResponse, 0, len(items))
	for _, item := range items {
		if resp := toHospitalAvailabilityResponse(item); resp != nil {
			out = append(out, resp)
		}
	}

	return out
}
