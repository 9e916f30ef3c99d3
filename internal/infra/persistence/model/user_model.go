package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Profile         *ProfileModel         `gorm:"foreignKey:UserID"`
	Authentications []AuthenticationModel `gorm:"foreignKey:UserID"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ProfileModel mirrors the 'profiles' table. UserID references users.id (UUID)
// and doubles as the primary key: one profile per identity.
type ProfileModel struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Age          int
	Sex          string `gorm:"type:varchar(10)"`
	Role         string `gorm:"type:varchar(20);not null"`
	PhoneNumber  string `gorm:"type:varchar(20)"`
	HospitalID   *int64
	HospitalName string `gorm:"type:varchar(255)"`
	Address      string `gorm:"type:text"`
	AvatarURL    string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}
