package models

import "time"

// User represents an account identity used for authentication.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email    string `gorm:"type:text"`                      // Email address.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Profile *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"` // Attached gym profile.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
