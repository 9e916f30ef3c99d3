package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAvailability_Absent(t *testing.T) {
	for _, rows := range [][]*Availability{nil, {}, {nil}} {
		snapshot := NormalizeAvailability(rows)

		assert.Equal(t, 0, snapshot.AvailableBeds)
		assert.Equal(t, 0, snapshot.AvailableOxygen)
		assert.Nil(t, snapshot.LastUpdated)
	}
}

func TestNormalizeAvailability_SingleRow(t *testing.T) {
	updated := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)
	row := &Availability{
		HospitalID:      6,
		AvailableBeds:   15,
		AvailableOxygen: 4,
		LastUpdated:     updated,
		UpdatedBy:       uuid.New(),
	}

	snapshot := NormalizeAvailability([]*Availability{row})

	assert.Equal(t, 15, snapshot.AvailableBeds)
	assert.Equal(t, 4, snapshot.AvailableOxygen)
	require.NotNil(t, snapshot.LastUpdated)
	assert.Equal(t, updated, *snapshot.LastUpdated)
}

// The one-element-list shape and the single-object shape must read
// identically, and a pathological multi-row result resolves to the newest row.
func TestNormalizeAvailability_NewestRowWins(t *testing.T) {
	older := &Availability{AvailableBeds: 1, AvailableOxygen: 1, LastUpdated: time.Now().Add(-time.Hour)}
	newer := &Availability{AvailableBeds: 20, AvailableOxygen: 7, LastUpdated: time.Now()}

	snapshot := NormalizeAvailability([]*Availability{older, newer})

	assert.Equal(t, 20, snapshot.AvailableBeds)
	assert.Equal(t, 7, snapshot.AvailableOxygen)
}
