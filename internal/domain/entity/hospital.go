// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Hospital is a managed facility. Hospitals are created by the hospital-admin
// provisioning flow and administratively managed; the application never
// deletes them.
type Hospital struct {
	ID          int64      // Numeric facility identifier.
	Name        string     // Facility name; the read path orders by it ascending.
	Address     string     // Street address.
	PhoneNumber string     // Optional contact number.
	Latitude    float64    // The geographic latitude.
	Longitude   float64    // The geographic longitude.
	AdminID     *uuid.UUID // Back-reference to the administering identity, if any.
	CreatedAt   time.Time  // Timestamp of when the facility was provisioned.
	UpdatedAt   time.Time  // Timestamp of the last modification.
}

// Availability is the mutable bed/oxygen snapshot of one Hospital. At most
// one row exists per hospital, enforced by a storage-level unique constraint;
// the row is absent until the first update and mutated in place afterwards.
type Availability struct {
	HospitalID      int64     // The hospital this snapshot belongs to; unique.
	AvailableBeds   int       // Count of free beds, >= 0.
	AvailableOxygen int       // Count of free oxygen cylinders, >= 0.
	LastUpdated     time.Time // When the snapshot was last written.
	UpdatedBy       uuid.UUID // Identity of the last writer.
}

// AvailabilitySnapshot is the normalized, always-present view of a hospital's
// availability used by readers: zero counts and a nil timestamp when no
// Availability row exists yet.
type AvailabilitySnapshot struct {
	AvailableBeds   int
	AvailableOxygen int
	LastUpdated     *time.Time
}

// HospitalAvailability pairs a hospital with its normalized snapshot.
type HospitalAvailability struct {
	Hospital     *Hospital
	Availability AvailabilitySnapshot
}

// NormalizeAvailability collapses whatever the join produced for one hospital
// into a single snapshot. The backing store may hand back no rows, one row, or
// a one-element list depending on how the association was fetched; all three
// shapes must read identically. Should more than one row ever appear, the most
// recently written one wins.
func NormalizeAvailability(rows []*Availability) AvailabilitySnapshot {
	var latest *Availability
	for _, row := range rows {
		if row == nil {
			continue
		}
		if latest == nil || row.LastUpdated.After(latest.LastUpdated) {
			latest = row
		}
	}

	if latest == nil {
		return AvailabilitySnapshot{}
	}

	lastUpdated := latest.LastUpdated

	return AvailabilitySnapshot{
		AvailableBeds:   latest.AvailableBeds,
		AvailableOxygen: latest.AvailableOxygen,
		LastUpdated:     &lastUpdated,
	}
}
