package model

import (
	"time"

	"github.com/google/uuid"
)

// HospitalModel mirrors the 'hospitals' table.
type HospitalModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(255);not null"`
	Address     string `gorm:"type:text"`
	PhoneNumber string `gorm:"type:varchar(20)"`
	Latitude    float64
	Longitude   float64
	AdminID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Availability []AvailabilityModel `gorm:"foreignKey:HospitalID"`
}

// TableName explicitly sets the table name for GORM.
func (HospitalModel) TableName() string {
	return "hospitals"
}

// AvailabilityModel mirrors the 'availability' table. The unique index on
// hospital_id is the only guard keeping the snapshot one-row-per-hospital;
// the write path relies on it to catch concurrent first writes.
type AvailabilityModel struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	HospitalID      int64     `gorm:"uniqueIndex;not null"`
	AvailableBeds   int       `gorm:"not null"`
	AvailableOxygen int       `gorm:"not null"`
	LastUpdated     time.Time `gorm:"not null"`
	UpdatedBy       uuid.UUID `gorm:"type:uuid"`
}

// TableName explicitly sets the table name for GORM.
func (AvailabilityModel) TableName() string {
	return "availability"
}
