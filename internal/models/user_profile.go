package models

import "time"

// UserProfile holds gym-domain data attached one-to-one to a user account.
// It is created in the same transaction as the account and never exists
// without one.
type UserProfile struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;uniqueIndex"` // Owning account ID.
	User   User   `gorm:"foreignKey:UserID"`    // Owning account record.

	PhoneNumber   string    `gorm:"type:varchar(10)"`       // Contact phone number, optional.
	DateOfJoining time.Time `gorm:"not null"`               // Join date, set once at creation.
	Address       string    `gorm:"type:text"`              // Postal address, optional.
	IsGymAdmin    bool      `gorm:"not null;default:false"` // Elevated privileges for gym staff.

	Subscriptions []MemberSubscription `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE"` // Owned subscriptions.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
